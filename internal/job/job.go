// Package job defines RenderJob, the unit of work flowing from the expander
// through the render stage.
package job

import "fmt"

// Polarity selects the color scheme of an icon.
type Polarity int

const (
	// Original renders main on secondary as configured.
	Original Polarity = iota
	// Inverted swaps the main and secondary colors.
	Inverted
)

// Polarities lists both polarities in expansion order.
var Polarities = []Polarity{Original, Inverted}

// String returns the path segment used for the polarity.
func (p Polarity) String() string {
	switch p {
	case Original:
		return "original"
	case Inverted:
		return "inverted"
	}
	return fmt.Sprintf("polarity(%d)", int(p))
}

// ParsePolarity is the inverse of Polarity.String.
func ParsePolarity(s string) (Polarity, bool) {
	switch s {
	case "original":
		return Original, true
	case "inverted":
		return Inverted, true
	}
	return 0, false
}

// Kind distinguishes catalogue icons from personalised variants, which use
// a different path shape.
type Kind int

const (
	IconJob Kind = iota
	PersonJob
)

// PersonDirectory is the icon subdirectory recorded on personalised jobs.
const PersonDirectory = "personen"

// RenderJob is one fully specified unit of template rendering. Jobs are
// created in bulk by the expander and never mutated afterwards.
type RenderJob struct {
	Kind         Kind
	Organisation string
	Group        string
	Directory    string
	TemplateName string
	DisplayName  string
	Special      string
	Polarity     Polarity
	ExtraLabel   string
	Location     string

	// TemplateID is the template identifier handed to the renderer,
	// relative to the icons root.
	TemplateID string
	// TemplateMissing is set when no template file could be resolved; the
	// render stage skips such jobs.
	TemplateMissing bool
}

// IsPerson reports whether the job is a personalised variant.
func (j RenderJob) IsPerson() bool {
	return j.Kind == PersonJob
}

// BatchKey identifies the organisation/group batch the job belongs to.
// Jobs of different batches never share an output directory.
func (j RenderJob) BatchKey() string {
	if j.IsPerson() {
		return "custom/" + j.Organisation + "/" + j.Group
	}
	return j.Organisation + "/" + j.Group
}

// String renders a compact description for logs.
func (j RenderJob) String() string {
	return fmt.Sprintf("%s/%s/%s[%s,%s,%s,%s]", j.Organisation, j.Group, j.TemplateName, j.DisplayName, j.Special, j.ExtraLabel, j.Polarity)
}
