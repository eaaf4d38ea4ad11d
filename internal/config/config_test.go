package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadWorkerDefaults(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("CONTENT_DIR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "content", cfg.ContentDir)
	require.Len(t, cfg.KafkaBrokers, 1)
	require.Equal(t, "kafka:9092", cfg.KafkaBrokers[0])
	require.Equal(t, "content_drafts", cfg.KafkaTopic)
	require.Equal(t, "content-worker", cfg.KafkaConsumer)
}

func TestLoadWorkerOverrides(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("CONTENT_DIR", "/srv/content")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092,broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "custom_topic")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("WORKER_KEYWORD_LIMIT", "12")
	t.Setenv("WORKER_KEYWORD_MIN_LEN", "5")
	t.Setenv("WORKER_DEDUPE_CAPACITY", "5")
	t.Setenv("WORKER_DEDUPE_TTL", "48h")
	t.Setenv("WORKER_BATCH_SIZE", "3")
	t.Setenv("WORKER_COMMIT_INTERVAL", "5s")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "/srv/content", cfg.ContentDir)
	require.Len(t, cfg.KafkaBrokers, 2)
	require.Equal(t, "broker-a:29092", cfg.KafkaBrokers[0])
	require.Equal(t, "custom_topic", cfg.KafkaTopic)
	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 12, cfg.KeywordLimit)
	require.Equal(t, 5, cfg.KeywordMinLength)
	require.Equal(t, 5, cfg.DedupeCapacity)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL)
	require.Equal(t, 3, cfg.BatchSize)
	require.Equal(t, 5*time.Second, cfg.CommitInterval)
}

func TestLoadWorkerRejectsBadValues(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := config.LoadWorker()
	require.ErrorContains(t, err, "KAFKA_BROKERS")

	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("WORKER_BATCH_SIZE", "0")
	_, err = config.LoadWorker()
	require.ErrorContains(t, err, "WORKER_BATCH_SIZE")
}

func TestLoadAPI(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("API_PAGE_SIZE", "15")
	t.Setenv("API_MAX_PAGE_SIZE", "200")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("API_RATE_BURST", "5")
	t.Setenv("API_REQUEST_TIMEOUT", "3s")
	t.Setenv("CONTENT_DIR", "./site")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, 15, cfg.DefaultPage)
	require.Equal(t, 200, cfg.MaxPage)
	require.Equal(t, 2.5, cfg.RateLimit)
	require.Equal(t, 5, cfg.RateBurst)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, "./site", cfg.ContentDir)

	t.Setenv("API_PAGE_SIZE", "500")
	_, err = config.LoadAPI()
	require.ErrorContains(t, err, "cannot exceed")
}

func TestLoadHealthCheck(t *testing.T) {
	t.Setenv(config.FileEnv, "")
	t.Setenv("HEALTHCHECK_INTERVAL", "12h")
	t.Setenv("HEALTHCHECK_WORKERS", "8")
	t.Setenv("HEALTHCHECK_DEBOUNCE", "1s")
	t.Setenv("HEALTHCHECK_WATCH", "false")

	cfg, err := config.LoadHealthCheck()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, time.Second, cfg.Debounce)
	require.False(t, cfg.Watch)
}

func TestConfigFileIsOverriddenByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
content_dir = "/from/file"

[api]
bind_addr = ":7070"
page_size = 25

[kafka]
brokers = ["k1:9092", "k2:9092"]

[healthcheck]
interval = "30m"
`), 0o644))

	t.Setenv(config.FileEnv, path)
	t.Setenv("CONTENT_DIR", "")
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("API_PAGE_SIZE", "30")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("HEALTHCHECK_INTERVAL", "")

	api, err := config.LoadAPI()
	require.NoError(t, err)
	require.Equal(t, "/from/file", api.ContentDir)
	require.Equal(t, ":7070", api.BindAddr)
	require.Equal(t, 30, api.DefaultPage)

	worker, err := config.LoadWorker()
	require.NoError(t, err)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, worker.KafkaBrokers)

	hc, err := config.LoadHealthCheck()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, hc.Interval)
}

func TestConfigFileErrors(t *testing.T) {
	t.Setenv(config.FileEnv, filepath.Join(t.TempDir(), "missing.toml"))
	_, err := config.LoadAPI()
	require.ErrorContains(t, err, "read config file")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("content_dir = "), 0o644))
	t.Setenv(config.FileEnv, path)
	_, err = config.LoadCommon()
	require.ErrorContains(t, err, "decode config file")
}
