package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
  rate_limit_per_sec: 20
  rate_limit_burst: 10
  cache_ttl_seconds: 120
mqtt:
  enabled: true
  broker: tcp://broker.local:1883
  client_id: tagclyd-1
  topic: tagcly/pet/+/sensors
  qos: 1
database:
  dsn: host=localhost user=tagcly dbname=tagcly
home:
  latitude: 51.5074
  longitude: -0.1278
analytics:
  activity_low_threshold: 25
  activity_high_threshold: 75
  period_days: 14
worker_pool:
  size: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.CacheTTL())
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, 51.5074, cfg.Home.Latitude)
	assert.Equal(t, 75.0, cfg.Analytics.ActivityHighThreshold)
	assert.Equal(t, 14, cfg.Analytics.PeriodDays)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: host=localhost user=tagcly dbname=tagcly
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, time.Minute, cfg.Server.CacheTTL())
	assert.Equal(t, "tagcly/pet/+/sensors", cfg.MQTT.Topic)
	assert.Equal(t, 40.7128, cfg.Home.Latitude)
	assert.Equal(t, -74.006, cfg.Home.Longitude)
	assert.Equal(t, 30.0, cfg.Analytics.ActivityLowThreshold)
	assert.Equal(t, 70.0, cfg.Analytics.ActivityHighThreshold)
	assert.Equal(t, 7, cfg.Analytics.PeriodDays)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_InvalidQoSFallsBack(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  qos: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "environment: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}
