package render

import (
	"strings"

	"github.com/specialistvlad/iconpipe/internal/colors"
	"github.com/specialistvlad/iconpipe/internal/job"
)

// CatchAllOrganisation is the organisation id used for icons that belong to
// no particular organisation. Its name is not printed on the icon.
const CatchAllOrganisation = "allgemein"

// Context keys understood by the templates.
const (
	KeyValue          = "value"
	KeyOrganisation   = "organisation"
	KeyLocation       = "ort"
	KeyVolunteer      = "volunteer"
	KeyHelfer         = "helfer"
	KeySpecial        = "special"
	KeyMainColor      = "main_color"
	KeySecondaryColor = "secondary_color"
)

// Context is the key/value data a template is rendered with.
type Context map[string]string

// BuildContext assembles the render context of a job. Inverted jobs get
// the organisation's main and secondary colors swapped.
func BuildContext(j job.RenderJob) Context {
	pair := colors.For(j.Organisation)
	if j.Polarity == job.Inverted {
		pair = pair.Swapped()
	}

	organisation := strings.ToUpper(j.Organisation)
	if strings.EqualFold(j.Organisation, CatchAllOrganisation) {
		organisation = ""
	}

	return Context{
		KeyValue:          j.DisplayName,
		KeyOrganisation:   organisation,
		KeyLocation:       j.Location,
		KeyVolunteer:      j.ExtraLabel,
		KeyHelfer:         j.ExtraLabel,
		KeySpecial:        j.Special,
		KeyMainColor:      string(pair.Main),
		KeySecondaryColor: string(pair.Secondary),
	}
}
