package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the invariants the path grammar relies on: every field
// that becomes a path component must be free of path separators and parent
// references, and every entry must name a template.
func (m *Model) Validate() error {
	var errs []error

	if strings.TrimSpace(m.Settings.OutputDir) == "" {
		errs = append(errs, Errorf("", "settings.output_dir", "must not be empty"))
	}
	if strings.TrimSpace(m.Settings.IconsDir) == "" {
		errs = append(errs, Errorf("", "settings.icons_dir", "must not be empty"))
	}

	for _, org := range m.Organisations {
		orgField := fmt.Sprintf("organisation[%s]", org.Name)
		errs = appendIf(errs, checkComponent(orgField, "name", org.Name, true))
		for i, d := range org.Icons {
			field := fmt.Sprintf("%s.icon[%d]", orgField, i)
			errs = appendIf(errs, checkComponent(field, "template", d.Template, true))
			errs = appendIf(errs, checkComponent(field, "group", d.Group, false))
			errs = appendIf(errs, checkComponent(field, "directory", d.Directory, false))
			errs = appendIf(errs, checkComponent(field, "names", d.Names, false))
			errs = appendIf(errs, checkComponent(field, "special", d.Special, false))
		}
	}

	if m.Persons != nil {
		for i, p := range m.Persons.Persons {
			field := fmt.Sprintf("person[%d]", i)
			errs = appendIf(errs, checkComponent(field, "organisation", p.Organisation, true))
			errs = appendIf(errs, checkComponent(field, "template", p.Template, true))
			errs = appendIf(errs, checkComponent(field, "group", p.Group, false))
			errs = appendIf(errs, checkComponent(field, "label", p.Label, false))
			errs = appendIf(errs, checkComponent(field, "value", p.Value, false))
		}
	}

	return errors.Join(errs...)
}

func appendIf(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}

// checkComponent validates a field that ends up inside an output path. List
// fields are checked element by element.
func checkComponent(field, name, value string, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return Errorf("", field+"."+name, "is required")
	}
	if strings.ContainsAny(value, `/\`) {
		return Errorf("", field+"."+name, "must not contain path separators, got %q", value)
	}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p == "." || p == ".." {
			return Errorf("", field+"."+name, "must not reference %q", p)
		}
	}
	return nil
}
