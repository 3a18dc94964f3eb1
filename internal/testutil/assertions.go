package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertOutputs checks that every relative path exists in the build tree.
func AssertOutputs(t *testing.T, p *Project, rel ...string) {
	t.Helper()
	tree := p.Output(t)
	for _, r := range rel {
		_, ok := tree[r]
		require.True(t, ok, "expected build output %q was not written", r)
	}
}

// AssertNoOutputs checks that none of the relative paths exist in the build
// tree.
func AssertNoOutputs(t *testing.T, p *Project, rel ...string) {
	t.Helper()
	tree := p.Output(t)
	for _, r := range rel {
		_, ok := tree[r]
		require.False(t, ok, "unexpected build output %q", r)
	}
}

// AssertLogged checks the log output for a message. It matches the text
// handler's msg field so the check does not depend on attribute order.
func AssertLogged(t *testing.T, result *HarnessResult, msg string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, "msg="+quoteIfNeeded(msg)),
		"expected log message %q was not found in logs", msg,
	)
}

// quoteIfNeeded mirrors slog's text handler quoting for messages.
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " =\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
