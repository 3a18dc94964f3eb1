// Package colors holds the static color table of the known organisations.
package colors

import "strings"

// Color is a CSS color literal as it appears in the rendered markup.
type Color string

// Pair is the main/secondary color combination of an organisation.
type Pair struct {
	Main      Color
	Secondary Color
}

// Swapped returns the pair with main and secondary exchanged.
func (p Pair) Swapped() Pair {
	return Pair{Main: p.Secondary, Secondary: p.Main}
}

// Default is returned for organisations missing from the table.
var Default = Pair{Main: "#fff", Secondary: "#000"}

// table is keyed by lower-cased organisation id.
var table = map[string]Pair{
	"thw":        {Main: "#fff", Secondary: "#003399"},
	"feuerwehr":  {Main: "#fff", Secondary: "#c00"},
	"fw":         {Main: "#fff", Secondary: "#c00"},
	"polizei":    {Main: "#fff", Secondary: "#00664f"},
	"drk":        {Main: "#fff", Secondary: "#e60005"},
	"asb":        {Main: "#fff", Secondary: "#ffd500"},
	"juh":        {Main: "#fff", Secondary: "#e30613"},
	"mhd":        {Main: "#fff", Secondary: "#c8102e"},
	"dlrg":       {Main: "#fff", Secondary: "#e2001a"},
	"bundeswehr": {Main: "#fff", Secondary: "#5c6b3c"},
}

// For returns the color pair of an organisation. Unknown ids get Default.
func For(organisation string) Pair {
	if p, ok := table[strings.ToLower(organisation)]; ok {
		return p
	}
	return Default
}
