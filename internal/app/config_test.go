package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "cartelera", cfg.Issuer)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 64*1024, cfg.HashMemoryKiB)
	require.Equal(t, 3, cfg.HashIterations)
	require.Equal(t, 2, cfg.HashParallelism)
	require.Equal(t, 5, cfg.LoginLimit)
	require.Equal(t, 15*time.Minute, cfg.LoginWindow)
	require.Equal(t, 15, cfg.ReviewLimit)
	require.Equal(t, time.Hour, cfg.ReviewWindow)
	require.False(t, cfg.TrustProxyHeaders)
	require.Equal(t, 8080, cfg.Port)
}

func TestLoadConfig_HashParamBounds(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg Config)
	}{
		{"negative memory falls back", "CARTELERA_HASH_MEMORY_KIB", "-1",
			func(t *testing.T, cfg Config) { require.Equal(t, 64*1024, cfg.HashMemoryKiB) }},
		{"zero memory falls back", "CARTELERA_HASH_MEMORY_KIB", "0",
			func(t *testing.T, cfg Config) { require.Equal(t, 64*1024, cfg.HashMemoryKiB) }},
		{"memory past uint32 falls back", "CARTELERA_HASH_MEMORY_KIB", "4294967296",
			func(t *testing.T, cfg Config) { require.Equal(t, 64*1024, cfg.HashMemoryKiB) }},
		{"negative iterations falls back", "CARTELERA_HASH_ITERATIONS", "-3",
			func(t *testing.T, cfg Config) { require.Equal(t, 3, cfg.HashIterations) }},
		{"parallelism past uint8 falls back", "CARTELERA_HASH_PARALLELISM", "300",
			func(t *testing.T, cfg Config) { require.Equal(t, 2, cfg.HashParallelism) }},
		{"negative parallelism falls back", "CARTELERA_HASH_PARALLELISM", "-2",
			func(t *testing.T, cfg Config) { require.Equal(t, 2, cfg.HashParallelism) }},
		{"valid override is kept", "CARTELERA_HASH_MEMORY_KIB", "32768",
			func(t *testing.T, cfg Config) { require.Equal(t, 32768, cfg.HashMemoryKiB) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.check(t, LoadConfig())
		})
	}
}

func TestLoadConfig_TrustProxyHeaders(t *testing.T) {
	t.Setenv("CARTELERA_TRUST_PROXY_HEADERS", "true")
	require.True(t, LoadConfig().TrustProxyHeaders)

	t.Setenv("CARTELERA_TRUST_PROXY_HEADERS", "not-a-bool")
	require.False(t, LoadConfig().TrustProxyHeaders)
}
