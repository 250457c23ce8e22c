package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterClassification(t *testing.T) {
	r, err := newToolRouter([]string{"pick_theme"}, []string{"lookup", "get_weather"})
	require.NoError(t, err)

	assert.Equal(t, toolKindFrontend, r.classify("pick_theme"))
	assert.Equal(t, toolKindBackend, r.classify("lookup"))
	assert.Equal(t, toolKindUnknown, r.classify("mystery"))
}

func TestRouterRejectsNameConflicts(t *testing.T) {
	_, err := newToolRouter([]string{"lookup", "pick_theme"}, []string{"lookup"})

	var conflict *ToolConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"lookup"}, conflict.Names)
}

func TestRouterCallTracking(t *testing.T) {
	r, err := newToolRouter([]string{"pick_theme"}, []string{"lookup"})
	require.NoError(t, err)

	r.trackFrontendCall("call-f", "pick_theme")
	r.trackBackendCall("call-b", "lookup")

	name, ok := r.frontendCall("call-f")
	require.True(t, ok)
	assert.Equal(t, "pick_theme", name)

	_, ok = r.frontendCall("call-b")
	assert.False(t, ok)

	name, ok = r.backendCall("call-b")
	require.True(t, ok)
	assert.Equal(t, "lookup", name)

	_, ok = r.backendCall("call-unknown")
	assert.False(t, ok)
}
