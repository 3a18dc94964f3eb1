// Package render turns render jobs into vector files.
//
// BuildContext derives the template context of a job, a Renderer executes
// the template, and Stage fans the work out over organisation/group
// batches and writes the results below the output root.
package render
