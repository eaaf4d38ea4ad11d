package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the optional TOML file read before the environment.
const FileEnv = "SITE_CONFIG_FILE"

// Common contains the content location shared by every service.
type Common struct {
	ContentDir string
}

// Worker holds configuration for the Kafka draft-ingestion worker.
type Worker struct {
	Common
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	DedupeCapacity   int
	DedupeTTL        time.Duration
	BatchSize        int
	CommitInterval   time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr       string
	DefaultPage    int
	MaxPage        int
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
}

// HealthCheck configures the content health job.
type HealthCheck struct {
	Common
	Interval time.Duration
	Workers  int
	Debounce time.Duration
	Watch    bool
}

// values resolves a key from the environment first, then the config file.
type values struct {
	file map[string]string
}

func newValues() (values, error) {
	path := os.Getenv(FileEnv)
	if path == "" {
		return values{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return values{}, fmt.Errorf("read config file: %w", err)
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return values{}, fmt.Errorf("decode config file: %w", err)
	}
	flat := make(map[string]string)
	flatten("", tree, flat)
	return values{file: flat}, nil
}

// flatten maps [section] key = value to SECTION_KEY, the matching env name.
func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case []any:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

func loadCommon(v values) (Common, error) {
	c := Common{ContentDir: v.getEnv("CONTENT_DIR", "content")}
	if strings.TrimSpace(c.ContentDir) == "" {
		return c, fmt.Errorf("CONTENT_DIR must not be empty")
	}
	return c, nil
}

// LoadCommon builds the shared settings only.
func LoadCommon() (*Common, error) {
	v, err := newValues()
	if err != nil {
		return nil, err
	}
	c, err := loadCommon(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	v, err := newValues()
	if err != nil {
		return nil, err
	}
	common, err := loadCommon(v)
	if err != nil {
		return nil, err
	}
	c := &Worker{
		Common:           common,
		KafkaBrokers:     splitAndTrim(v.getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       v.getEnv("KAFKA_TOPIC", "content_drafts"),
		KafkaConsumer:    v.getEnv("KAFKA_CONSUMER_GROUP", "content-worker"),
		KeywordLimit:     v.getInt("WORKER_KEYWORD_LIMIT", 5),
		KeywordMinLength: v.getInt("WORKER_KEYWORD_MIN_LEN", 4),
		DedupeCapacity:   v.getInt("WORKER_DEDUPE_CAPACITY", 5000),
		DedupeTTL:        v.getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:        v.getInt("WORKER_BATCH_SIZE", 10),
		CommitInterval:   v.getDuration("WORKER_COMMIT_INTERVAL", "2s"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.KeywordLimit < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT cannot be negative")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	v, err := newValues()
	if err != nil {
		return nil, err
	}
	common, err := loadCommon(v)
	if err != nil {
		return nil, err
	}
	c := &API{
		Common:         common,
		BindAddr:       v.getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultPage:    v.getInt("API_PAGE_SIZE", 10),
		MaxPage:        v.getInt("API_MAX_PAGE_SIZE", 100),
		RateLimit:      v.getFloat("API_RATE_LIMIT", 20),
		RateBurst:      v.getInt("API_RATE_BURST", 40),
		RequestTimeout: v.getDuration("API_REQUEST_TIMEOUT", "5s"),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}
	if c.RateLimit < 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT cannot be negative")
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return nil, fmt.Errorf("API_RATE_BURST must be positive when rate limiting is on")
	}
	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}

	return c, nil
}

// LoadHealthCheck builds a HealthCheck config from environment variables.
func LoadHealthCheck() (*HealthCheck, error) {
	v, err := newValues()
	if err != nil {
		return nil, err
	}
	common, err := loadCommon(v)
	if err != nil {
		return nil, err
	}
	c := &HealthCheck{
		Common:   common,
		Interval: v.getDuration("HEALTHCHECK_INTERVAL", "1h"),
		Workers:  v.getInt("HEALTHCHECK_WORKERS", 4),
		Debounce: v.getDuration("HEALTHCHECK_DEBOUNCE", "500ms"),
		Watch:    v.getBool("HEALTHCHECK_WATCH", true),
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("HEALTHCHECK_INTERVAL must be positive")
	}
	if c.Workers <= 0 {
		return nil, fmt.Errorf("HEALTHCHECK_WORKERS must be positive")
	}
	if c.Debounce < 0 {
		return nil, fmt.Errorf("HEALTHCHECK_DEBOUNCE cannot be negative")
	}

	return c, nil
}

func (v values) getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	if val, ok := v.file[key]; ok && val != "" {
		return val
	}
	return fallback
}

func (v values) getInt(key string, fallback int) int {
	if parsed, err := strconv.Atoi(v.getEnv(key, "")); err == nil {
		return parsed
	}
	return fallback
}

func (v values) getFloat(key string, fallback float64) float64 {
	if parsed, err := strconv.ParseFloat(v.getEnv(key, ""), 64); err == nil {
		return parsed
	}
	return fallback
}

func (v values) getBool(key string, fallback bool) bool {
	if parsed, err := strconv.ParseBool(v.getEnv(key, "")); err == nil {
		return parsed
	}
	return fallback
}

func (v values) getDuration(key, fallback string) time.Duration {
	raw := v.getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
