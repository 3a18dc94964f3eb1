package system

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/iconpipe/internal/app"
	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/testutil"
)

const barTemplate = `<svg fill="{{ main_color }}"><text>{{ value }}</text></svg>`

// Test for: config merges
func TestCLI_MergesHCL_FromDirectoryPath(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"conf.d/thw.hcl":     testutil.OrganisationHCL("THW", config.Description{Template: "bar", Names: "A"}),
		"conf.d/more/fw.hcl": testutil.OrganisationHCL("FW", config.Description{Template: "bar", Names: "B"}),
		"conf.d/settings.hcl": `
settings {
  enable_library = false
}
`,
		"icons/THW/bar.template.svg": barTemplate,
		"icons/FW/bar.template.svg":  barTemplate,
	}

	// --- Act ---
	p, result := testutil.RunBuild(t, files, func(c *app.Config) {
		c.ConfigPaths = []string{filepath.Join(filepath.Dir(c.OutputDir), "conf.d")}
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 4, result.Summary.Jobs)
	assert.Zero(t, result.Summary.Libraries)
	testutil.AssertOutputs(t, p, "original/svg/THW/A-bar.svg", "inverted/svg/FW/B-bar.svg")
	testutil.AssertNoOutputs(t, p, "drawio/THW-original.xml")
}

// Test for: YAML configuration produces the same tree as HCL.
func TestCLI_YAMLAndHCLAgree(t *testing.T) {
	// --- Arrange ---
	icons := map[string]string{"icons/THW/Zug1/bar.template.svg": barTemplate}
	withConfig := func(name, body string) map[string]string {
		files := map[string]string{name: body}
		for k, v := range icons {
			files[k] = v
		}
		return files
	}

	// --- Act ---
	hclProject, hclResult := testutil.RunBuild(t, withConfig("iconpipe.hcl",
		testutil.OrganisationHCL("THW", config.Description{Template: "bar", Group: "Zug1", Names: "X,Y", Special: ",FüKW"})))
	yamlProject, yamlResult := testutil.RunBuild(t, withConfig("iconpipe.yaml", `
organisations:
  THW:
    - template: bar
      group: Zug1
      names: [X, Y]
      special: ["", FüKW]
`))

	// --- Assert ---
	require.NoError(t, hclResult.Err)
	require.NoError(t, yamlResult.Err)
	assert.Equal(t, 8, yamlResult.Summary.Jobs)
	assert.Equal(t, hclProject.Output(t), yamlProject.Output(t))
}

// Test for: command line overrides win over the settings block.
func TestCLI_OverridesDisableStages(t *testing.T) {
	files := map[string]string{
		"iconpipe.hcl": `
settings {
  enable_png     = true
  enable_library = true
}
` + testutil.OrganisationHCL("THW", config.Description{Template: "bar", Names: "A"}),
		"icons/THW/bar.template.svg": barTemplate,
	}

	p, result := testutil.RunBuild(t, files, func(c *app.Config) {
		c.NoPNG = true
		c.NoLibrary = true
	})

	require.NoError(t, result.Err)
	assert.Zero(t, p.Rasterizer.Calls())
	assert.Len(t, p.Output(t), 2)
}
