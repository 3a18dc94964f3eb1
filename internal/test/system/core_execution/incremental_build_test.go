package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/testutil"
)

const barTemplate = `<svg fill="{{ main_color }}"><text>{{ value }}</text></svg>`

func project(t *testing.T) *testutil.Project {
	t.Helper()
	return testutil.NewProject(t, map[string]string{
		"iconpipe.hcl": testutil.OrganisationHCL("THW",
			config.Description{Template: "bar", Group: "Zug1", Names: "X,Y", Directory: "Foo"},
		),
		"icons/THW/Zug1/bar.template.svg": barTemplate,
	})
}

// Test for: a first build writes every output tree.
func TestCoreExecution_FirstBuildWritesEverything(t *testing.T) {
	// --- Arrange ---
	p := project(t)

	// --- Act ---
	result := p.Build(t)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertOutputs(t, p,
		"original/svg/THW/Zug1/Foo/X-bar.svg",
		"inverted/svg/THW/Zug1/Foo/Y-bar.svg",
		"original/png/128/THW/Zug1/Foo/X-bar.png",
		"inverted/png/2048/THW/Zug1/Foo/Y-bar.png",
		"drawio/THW-Zug1-Foo-original.xml",
		"drawio/THW-Zug1-Foo-inverted.xml",
	)
	assert.Equal(t, 20, p.Rasterizer.Calls())
	testutil.AssertLogged(t, result, "🏁 Build finished.")
}

// Test for: an unchanged project rasterizes nothing on the second build.
func TestCoreExecution_SecondBuildIsIncremental(t *testing.T) {
	// --- Arrange ---
	p := project(t)
	require.NoError(t, p.Build(t).Err)
	first := p.Output(t)
	p.Rasterizer.Reset()

	// --- Act ---
	result := p.Build(t)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Zero(t, p.Rasterizer.Calls())
	assert.Equal(t, 4, result.Summary.Unchanged)
	assert.Equal(t, first, p.Output(t))
}

// Test for: editing a template regenerates only the assets it renders.
func TestCoreExecution_TemplateEditRebuildsItsAssets(t *testing.T) {
	// --- Arrange ---
	p := testutil.NewProject(t, map[string]string{
		"iconpipe.hcl": testutil.OrganisationHCL("THW",
			config.Description{Template: "bar", Group: "Zug1", Names: "X"},
			config.Description{Template: "lkw", Group: "Zug1", Names: "X"},
		),
		"icons/THW/Zug1/bar.template.svg": barTemplate,
		"icons/THW/lkw.template.svg":      `<svg>{{ value }} truck</svg>`,
	})
	require.NoError(t, p.Build(t).Err)
	p.Rasterizer.Reset()

	// --- Act ---
	p.Write(t, map[string]string{"icons/THW/lkw.template.svg": `<svg>{{ value }} lorry</svg>`})
	result := p.Build(t)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 2, result.Summary.Stale)
	assert.Equal(t, 2, result.Summary.Unchanged)
	assert.Equal(t, 10, p.Rasterizer.Calls())
	assert.Equal(t, "<svg>X lorry</svg>", p.Output(t)["original/svg/THW/Zug1/X-lkw.svg"])
}
