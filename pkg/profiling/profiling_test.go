package profiling

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTypes_EmptySelectsAll(t *testing.T) {
	got, err := sampleTypes("  ")
	require.NoError(t, err)
	assert.Equal(t, allProfileTypes, got)
}

func TestSampleTypes_AliasesAreDeduplicated(t *testing.T) {
	got, err := sampleTypes("cpu, mutex,cpu,,block")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
		pyroscope.ProfileBlockCount,
		pyroscope.ProfileBlockDuration,
	}, got)
}

func TestSampleTypes_Unknown(t *testing.T) {
	_, err := sampleTypes("cpu,heap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"heap"`)
}

func TestApplicationName(t *testing.T) {
	got := applicationName("", "notethatdown-api", map[string]string{
		"service_name": "notethatdown-api",
		"environment":  "production",
		"instance":     "",
	})
	assert.Equal(t, "notethatdown-api{environment=production,service_name=notethatdown-api}", got)
}

func TestStart_Disabled(t *testing.T) {
	stop, err := Start(config.ProfilingConfig{Enabled: false}, config.ObservabilityConfig{}, "test")
	require.NoError(t, err)
	require.NotNil(t, stop)
	stop()
}

func TestStart_EnabledWithoutEndpoint(t *testing.T) {
	_, err := Start(config.ProfilingConfig{Enabled: true}, config.ObservabilityConfig{}, "test")
	require.Error(t, err)
}
