package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestPongoRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "thw/bar.template.svg", `<svg fill="{{ main_color }}"><text>{{ value }}{% if special %}-{{ special }}{% endif %}</text></svg>`)

	r, err := NewPongoRenderer(dir)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), "thw/bar.template.svg", Context{
		KeyValue:     "X",
		KeySpecial:   "FK",
		KeyMainColor: "#fff",
	})
	require.NoError(t, err)
	assert.Equal(t, `<svg fill="#fff"><text>X-FK</text></svg>`, out)
}

func TestPongoRenderer_Autoescapes(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "t.template.svg", `<text>{{ value }}</text>`)

	r, err := NewPongoRenderer(dir)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), "t.template.svg", Context{KeyValue: "<b>&"})
	require.NoError(t, err)
	assert.Equal(t, `<text>&lt;b&gt;&amp;</text>`, out)
}

func TestPongoRenderer_Errors(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "broken.template.svg", `<text>{% if value %}</text>`)

	r, err := NewPongoRenderer(dir)
	require.NoError(t, err)

	for _, id := range []string{"broken.template.svg", "missing.template.svg"} {
		_, err := r.Render(context.Background(), id, Context{})
		require.Error(t, err, id)

		var te *TemplateError
		require.True(t, errors.As(err, &te), id)
		assert.Equal(t, id, te.TemplateID)
	}
}

func TestNewPongoRenderer_MissingDirectory(t *testing.T) {
	_, err := NewPongoRenderer(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
