package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quotescrape/lib/configutil"

	"github.com/stretchr/testify/require"
)

func TestConfigShape(t *testing.T) {
	name := filepath.Join(t.TempDir(), "telemetry.json5")
	err := os.WriteFile(name, []byte(`{
		otlp: {
			traces: {
				grpc_endpoint: "http://localhost:4317",
				headers: { authorization: "Bearer token" },
			},
			metrics: { http_endpoint: "http://localhost:4318/v1/metrics" },
		},
		metric_interval_seconds: 30,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := configutil.ReadConfig[Config](name)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.True(t, cfg.Otlp.Traces.useGrpc())
	require.Equal(t, "http://localhost:4317", cfg.Otlp.Traces.endpoint())
	require.Equal(t, map[string]string{"authorization": "Bearer token"}, cfg.Otlp.Traces.Headers)

	require.False(t, cfg.Otlp.Metrics.useGrpc())
	require.Equal(t, "http://localhost:4318/v1/metrics", cfg.Otlp.Metrics.endpoint())
	require.Equal(t, 30*time.Second, cfg.MetricInterval())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Otlp: OtlpConfig{
			Traces:  OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/traces"},
			Metrics: OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/metrics"},
		},
	}
	require.NoError(t, valid.Validate())
	require.Equal(t, defaultMetricInterval, valid.MetricInterval())

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no trace endpoint", func(c *Config) { c.Otlp.Traces = OtlpConnConfig{} }},
		{"no metric endpoint", func(c *Config) { c.Otlp.Metrics = OtlpConnConfig{} }},
		{"negative interval", func(c *Config) { c.MetricIntervalSeconds = -1 }},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid
			test.mutate(&cfg)
			require.Error(t, cfg.Validate())

			_, err := Setup(context.Background(), "quotescrape-test", cfg)
			require.Error(t, err)
		})
	}
}
