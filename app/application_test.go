package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationWithoutCredentials(t *testing.T) {
	// No upstream keys in the environment: the application must still come
	// up fully, with every provider stack in fallback mode.
	application, err := NewApplication()
	require.NoError(t, err)
	require.NotNil(t, application)

	assert.NotNil(t, application.Config())
	assert.NotNil(t, application.Server())

	upstreams := application.Config().ConfiguredUpstreams()
	assert.False(t, upstreams["weather"])
	assert.False(t, upstreams["news"])
	assert.False(t, upstreams["chat"])
	assert.False(t, upstreams["vision"])
}

func TestApplicationDebugInfo(t *testing.T) {
	application, err := NewApplication()
	require.NoError(t, err)

	info := application.DebugInfo()

	assert.Contains(t, info, "trackedClients")
	assert.Contains(t, info, "cacheStats")
	assert.Contains(t, info, "cacheEntries")
	assert.Equal(t, 0, info["trackedClients"])
}

func TestApplicationShutdown(t *testing.T) {
	application, err := NewApplication()
	require.NoError(t, err)

	// Shutdown before Start must be safe.
	assert.NoError(t, application.Shutdown())
}

func TestConfigDisplayerMasksKeys(t *testing.T) {
	cd := NewConfigDisplayer()

	assert.Equal(t, "(not set - fallback mode)", cd.maskString(""))
	assert.Equal(t, "****", cd.maskString("abc"))

	masked := cd.maskString("sk-1234567890abcdef")
	assert.Equal(t, "sk****ef", masked)
	assert.NotContains(t, masked, "1234567890")
}
