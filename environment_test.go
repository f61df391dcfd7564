package relay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

const testKey = "RELAY_TEST_VALUE"

func TestEnvironmentValid(t *testing.T) {
	require.Nil(t, relay.Production.Valid())
	require.ErrorIs(t, relay.Environment("NOPE").Valid(), relay.ErrNotValid)
	require.False(t, relay.Testing.ReportsPanics())
	require.True(t, relay.Staging.ReportsPanics())
}

func TestEnvVarOrBool(t *testing.T) {
	tcs := []struct {
		name     string
		val      string
		def      bool
		expected bool
	}{
		{"Unset", "", true, true},
		{"True", "TRUE", false, true},
		{"False", "false", true, false},
		{"Garbage", "yes", false, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(testKey, tc.val)
			require.Equal(t, tc.expected, relay.EnvVarOrBool(testKey, tc.def))
		})
	}
}

func TestEnvVarOrDuration(t *testing.T) {
	t.Setenv(testKey, "")
	require.Equal(t, time.Second, relay.EnvVarOrDuration(testKey, time.Second))

	t.Setenv(testKey, "5m")
	require.Equal(t, 5*time.Minute, relay.EnvVarOrDuration(testKey, time.Second))
}

func TestEnvVarOrEnv(t *testing.T) {
	t.Setenv(testKey, "staging")
	require.Equal(t, relay.Staging, relay.EnvVarOrEnv(testKey, relay.Development))

	t.Setenv(testKey, "moon")
	require.Equal(t, relay.Development, relay.EnvVarOrEnv(testKey, relay.Development))
}

func TestEnvVarOrInt(t *testing.T) {
	t.Setenv(testKey, "4096")
	require.Equal(t, 4096, relay.EnvVarOrInt(testKey, 1))

	t.Setenv(testKey, "four")
	require.Equal(t, 1, relay.EnvVarOrInt(testKey, 1))
}

func TestEnvVarOrLogLevel(t *testing.T) {
	t.Setenv(testKey, "warn")
	require.Equal(t, logger.LogLevelWarn, relay.EnvVarOrLogLevel(testKey, logger.LogLevelInfo))

	t.Setenv(testKey, "LOUD")
	require.Equal(t, logger.LogLevelInfo, relay.EnvVarOrLogLevel(testKey, logger.LogLevelInfo))
}

func TestEnvVarOrURL(t *testing.T) {
	t.Setenv(testKey, "")
	require.Equal(t, "http://localhost:3000/", relay.EnvVarOrURL(testKey, "http://localhost:3000/index").String())

	t.Setenv(testKey, "https://example.com")
	require.Equal(t, "https://example.com", relay.EnvVarOrURL(testKey, "http://localhost:3000").String())

	require.Nil(t, relay.EnvVarOrURL(testKey, "::nope"))
}
