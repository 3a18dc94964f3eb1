// Package expand turns a build configuration into the flat list of render
// jobs, multiplying every list field out combinatorially.
package expand

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/job"
	"github.com/specialistvlad/iconpipe/internal/paths"
)

// TemplateSuffix is appended to a template name to form its file name.
const TemplateSuffix = ".template.svg"

// Expander expands configuration entries into render jobs. Template files
// are looked up in Icons, which is rooted at the icons directory.
type Expander struct {
	Icons fs.FS
}

// New creates an expander resolving templates in icons.
func New(icons fs.FS) *Expander {
	return &Expander{Icons: icons}
}

// Expand returns every job the model describes, in configuration order.
//
// An empty list field yields a single empty element, so "names = \"\""
// still produces one job per polarity. Jobs whose template cannot be
// resolved are emitted with TemplateMissing set. Exact duplicates are
// dropped; two distinct jobs deriving the same output path are a
// configuration error.
func (e *Expander) Expand(ctx context.Context, m *config.Model) ([]job.RenderJob, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Expanding configuration into render jobs.", "organisations", len(m.Organisations))

	c := newCollector(m.Settings.OutputDir)

	for _, org := range m.Organisations {
		for _, d := range org.Icons {
			templateID, missing := e.resolve(org.Name, d.Group, d.Template)
			if missing {
				logger.Warn("Template not found, jobs will be skipped.", "organisation", org.Name, "group", d.Group, "template", d.Template)
			}
			for _, name := range SplitList(d.Names) {
				for _, polarity := range job.Polarities {
					for _, special := range SplitList(d.Special) {
						c.add(job.RenderJob{
							Kind:            job.IconJob,
							Organisation:    org.Name,
							Group:           d.Group,
							Directory:       d.Directory,
							TemplateName:    d.Template,
							DisplayName:     name,
							Special:         special,
							Polarity:        polarity,
							Location:        d.Location,
							TemplateID:      templateID,
							TemplateMissing: missing,
						})
					}
				}
			}
		}
	}

	if m.Persons != nil && m.Persons.Enabled {
		for _, p := range m.Persons.Persons {
			templateID, missing := e.resolve(p.Organisation, p.Group, p.Template)
			if missing {
				logger.Warn("Person template not found, jobs will be skipped.", "organisation", p.Organisation, "group", p.Group, "template", p.Template)
			}
			for _, label := range SplitList(p.Label) {
				for _, polarity := range job.Polarities {
					for _, value := range SplitList(p.Value) {
						c.add(job.RenderJob{
							Kind:            job.PersonJob,
							Organisation:    p.Organisation,
							Group:           p.Group,
							Directory:       job.PersonDirectory,
							TemplateName:    p.Template,
							DisplayName:     value,
							Polarity:        polarity,
							ExtraLabel:      label,
							Location:        p.Location,
							TemplateID:      templateID,
							TemplateMissing: missing,
						})
					}
				}
			}
		}
	} else if m.Persons != nil && len(m.Persons.Persons) > 0 {
		logger.Debug("Person variants are disabled.", "entries", len(m.Persons.Persons))
	}

	if c.duplicates > 0 {
		logger.Warn("Dropped duplicate jobs.", "count", c.duplicates)
	}
	if err := errors.Join(c.errs...); err != nil {
		return nil, err
	}

	logger.Debug("Expansion finished.", "jobs", len(c.jobs))
	return c.jobs, nil
}

// resolve finds the template for an entry, preferring the group-specific
// file over the organisation-wide one.
func (e *Expander) resolve(organisation, group, template string) (string, bool) {
	file := template + TemplateSuffix
	candidates := []string{
		path.Join(organisation, group, file),
		path.Join(organisation, file),
	}
	for _, c := range candidates {
		if info, err := fs.Stat(e.Icons, c); err == nil && !info.IsDir() {
			return c, false
		}
	}
	return candidates[len(candidates)-1], true
}

// SplitList splits a comma separated field, trimming blanks around each
// element. The empty string yields one empty element.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// collector accumulates jobs and enforces that each output path belongs to
// exactly one job.
type collector struct {
	root       string
	jobs       []job.RenderJob
	byPath     map[string]job.RenderJob
	duplicates int
	errs       []error
}

func newCollector(root string) *collector {
	return &collector{root: root, byPath: make(map[string]job.RenderJob)}
}

func (c *collector) add(j job.RenderJob) {
	p := paths.SVGPath(c.root, j)
	if prev, ok := c.byPath[p]; ok {
		if prev == j {
			c.duplicates++
			return
		}
		c.errs = append(c.errs, config.Errorf("", p, "output path claimed by both %s and %s", prev, j))
		return
	}
	c.byPath[p] = j
	c.jobs = append(c.jobs, j)
}
