package testutil

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/iconpipe/internal/config"
)

// OrganisationHCL renders an organisation block with one icon block per
// description. Empty fields are omitted.
func OrganisationHCL(name string, icons ...config.Description) string {
	var b strings.Builder
	fmt.Fprintf(&b, "organisation %q {\n", name)
	for _, d := range icons {
		b.WriteString("  icon {\n")
		attr(&b, "template", d.Template)
		attr(&b, "group", d.Group)
		attr(&b, "names", d.Names)
		attr(&b, "special", d.Special)
		attr(&b, "directory", d.Directory)
		attr(&b, "location", d.Location)
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// PersonsHCL renders an enabled persons block.
func PersonsHCL(persons ...config.Person) string {
	var b strings.Builder
	b.WriteString("persons {\n  enabled = true\n")
	for _, p := range persons {
		b.WriteString("  person {\n")
		attr(&b, "label", p.Label)
		attr(&b, "organisation", p.Organisation)
		attr(&b, "group", p.Group)
		attr(&b, "template", p.Template)
		attr(&b, "value", p.Value)
		attr(&b, "location", p.Location)
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func attr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    %s = %q\n", name, value)
}
