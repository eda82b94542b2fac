package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		want         string
	}{
		{
			name:         "returns default when env not set",
			key:          "CROPTRACK_TEST_MISSING",
			defaultValue: "default_val",
			want:         "default_val",
		},
		{
			name:         "returns env value when set",
			key:          "CROPTRACK_TEST_SET",
			defaultValue: "default_val",
			envValue:     "custom_val",
			setEnv:       true,
			want:         "custom_val",
		},
		{
			name:         "returns default when env is empty string",
			key:          "CROPTRACK_TEST_EMPTY",
			defaultValue: "fallback",
			envValue:     "",
			setEnv:       true,
			want:         "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, getEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{"alice", "bob"}, splitList(" alice , bob ,"))
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_USERS", "root, ops")
	t.Setenv("TEST_MODE", "true")
	t.Setenv("FARM_TIMEZONE", "America/Chicago")
	t.Setenv("DATABASE_URL", "sqlite:/tmp/farm.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "sqlite:/tmp/farm.db", cfg.Database.URL)
	assert.True(t, cfg.TestMode)
	assert.True(t, cfg.IsAdmin("ops"))
	assert.False(t, cfg.IsAdmin("farmer"))
	assert.Equal(t, "America/Chicago", cfg.Location.String())
}

func TestLoad_DefaultLocation(t *testing.T) {
	t.Setenv("FARM_TIMEZONE", "")
	t.Setenv("TZ", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("FARM_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.Error(t, err)
}
