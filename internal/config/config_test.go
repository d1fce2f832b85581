package config

import (
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	require.NoError(t, err)
	require.Equal(t, "", cfg.BaseURL)
	require.Equal(t, time.Duration(0), cfg.Timeout)
	require.Empty(t, cfg.Sites)
	require.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		EnvBaseURL:  " http://localhost:8080 ",
		EnvTimeout:  "45s",
		EnvSites:    "nytimes.com, theguardian.com=guardian,,",
		EnvLogLevel: "DEBUG",
	}))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, 45*time.Second, cfg.Timeout)
	require.Equal(t, []string{"nytimes.com", "theguardian.com=guardian"}, cfg.Sites)
	require.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestFromEnvErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad timeout":      {EnvTimeout: "soon"},
		"negative timeout": {EnvTimeout: "-1s"},
		"bad level":        {EnvLogLevel: "loud"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(lookup(env))
			require.Error(t, err)
		})
	}
}
