// This file translates the HCL schema structs into the format-agnostic
// configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
)

// translateSettings applies the attributes a settings block defines.
func translateSettings(s *settingsBlock, into *config.Settings) {
	if s.EnablePNG != nil {
		into.EnablePNG = *s.EnablePNG
	}
	if s.EnableLibrary != nil {
		into.EnableLibrary = *s.EnableLibrary
	}
	if s.OutputDir != nil {
		into.OutputDir = *s.OutputDir
	}
	if s.IconsDir != nil {
		into.IconsDir = *s.IconsDir
	}
}

// translateOrganisation appends the icon blocks of o to the organisation of
// the same name, creating it on first sight.
func translateOrganisation(ctx context.Context, evalCtx *hcl.EvalContext, file string, o *organisationBlock, m *config.Model) error {
	logger := ctxlog.FromContext(ctx).With("organisation", o.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	org := m.Organisation(o.Name)
	for i, icon := range o.Icons {
		field := fmt.Sprintf("organisation[%s].icon[%d]", o.Name, len(org.Icons))

		names, err := listAttribute(ctx, evalCtx, icon.Names, "names")
		if err != nil {
			return &config.Error{Source: file, Field: field + ".names", Err: err}
		}
		special, err := listAttribute(ctx, evalCtx, icon.Special, "special")
		if err != nil {
			return &config.Error{Source: file, Field: field + ".special", Err: err}
		}

		org.Icons = append(org.Icons, &config.Description{
			Template:  icon.Template,
			Group:     icon.Group,
			Names:     names,
			Special:   special,
			Directory: icon.Directory,
			Location:  icon.Location,
		})
		logger.Debug("Translated icon block.", "index", i, "template", icon.Template, "group", icon.Group)
	}
	return nil
}

// translatePersons merges a persons block into the model. A later enabled
// attribute overrides an earlier one.
func translatePersons(ctx context.Context, evalCtx *hcl.EvalContext, file string, p *personsBlock, m *config.Model) error {
	if p.Enabled != nil {
		m.Persons.Enabled = *p.Enabled
	}

	for _, person := range p.Persons {
		field := fmt.Sprintf("person[%d]", len(m.Persons.Persons))

		label, err := listAttribute(ctx, evalCtx, person.Label, "label")
		if err != nil {
			return &config.Error{Source: file, Field: field + ".label", Err: err}
		}
		value, err := listAttribute(ctx, evalCtx, person.Value, "value")
		if err != nil {
			return &config.Error{Source: file, Field: field + ".value", Err: err}
		}

		m.Persons.Persons = append(m.Persons.Persons, &config.Person{
			Label:        label,
			Organisation: person.Organisation,
			Group:        person.Group,
			Template:     person.Template,
			Value:        value,
			Location:     person.Location,
		})
	}
	return nil
}
