package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/DeafMist/dept-site/backend/internal/contentparser"
	"github.com/DeafMist/dept-site/backend/internal/dedupe"
	"github.com/DeafMist/dept-site/backend/internal/loader"
	"github.com/DeafMist/dept-site/backend/internal/logger"
	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/processing"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

// draftMessage is the payload editors publish to the drafts topic.
type draftMessage struct {
	Type  string         `json:"type"`
	Draft map[string]any `json:"draft"`
}

type draftStore interface {
	SaveNewsArticle(ctx context.Context, a models.NewsArticle) error
	SaveEvent(ctx context.Context, e models.Event) error
}

type processor struct {
	log      *slog.Logger
	store    draftStore
	cache    *dedupe.Cache
	repairer *contentparser.Repairer
	cfg      *config.Worker
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	repairer := contentparser.NewRepairer()
	repairer.NewID = draftID

	p := &processor{
		log:      log,
		store:    loader.New(cfg.ContentDir, log),
		cache:    dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL),
		repairer: repairer,
		cfg:      cfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        dlqTopic,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
		slog.String("content_dir", cfg.ContentDir),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := p.processMessage(ctx, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if !sendToDLQ(ctx, log, dlqWriter, msg, err) {
				if ctx.Err() != nil {
					return
				}
				// Leave the offset uncommitted so the draft is redelivered.
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// dlqMessage copies msg with headers describing where and why it failed.
func dlqMessage(msg kafka.Message, cause error, now time.Time) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(now.UTC().Format(time.RFC3339))},
	)
	return kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}

// sendToDLQ retries the dead-letter write with exponential backoff and
// reports whether it eventually succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error) bool {
	dlqMsg := dlqMessage(msg, cause, time.Now())
	for attempt := range 5 {
		dlqErr := w.WriteMessages(ctx, dlqMsg)
		if dlqErr == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", dlqErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Info("context canceled during DLQ retry")
			return false
		}
	}
	return false
}

// processMessage repairs, enriches and validates one draft, then upserts it
// into its collection. Drafts already written inside the dedupe window are
// acknowledged without a second write.
func (p *processor) processMessage(ctx context.Context, msg kafka.Message) error {
	var payload draftMessage
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}

	kind, err := draftKind(payload.Type)
	if err != nil {
		return err
	}
	if len(payload.Draft) == 0 {
		return errors.New("empty draft")
	}

	rec, err := p.repairer.Repair(kind, payload.Draft)
	if err != nil {
		return err
	}
	p.enrich(kind, rec)

	switch kind {
	case models.KindNews:
		article, err := validation.ValidateNewsArticle(rec)
		if err != nil {
			return fmt.Errorf("validate news draft: %w", err)
		}
		key := dedupe.SubmissionKey(kind, article.ID, article.Title, article.Content)
		return p.save(key, article.ID, article.Title, func() error {
			return p.store.SaveNewsArticle(ctx, article)
		})
	default:
		event, err := validation.ValidateEvent(rec)
		if err != nil {
			return fmt.Errorf("validate event draft: %w", err)
		}
		key := dedupe.SubmissionKey(kind, event.ID, event.Title, event.Description, event.Date.Format(time.RFC3339))
		return p.save(key, event.ID, event.Title, func() error {
			return p.store.SaveEvent(ctx, event)
		})
	}
}

func (p *processor) save(key, id, title string, write func() error) error {
	if p.cache.IsSeen(key) {
		p.log.Debug("duplicate draft", slog.String("id", id))
		return nil
	}
	if err := write(); err != nil {
		return fmt.Errorf("save draft %s: %w", id, err)
	}
	p.cache.MarkSeen(key)
	p.log.Info("draft saved", slog.String("id", id), slog.String("title", title))
	return nil
}

// enrich derives tags from the draft text when the editor supplied none.
func (p *processor) enrich(kind models.Kind, rec map[string]any) {
	if tags, ok := rec["tags"].([]any); ok && len(tags) > 0 {
		return
	}
	if p.cfg.KeywordLimit == 0 {
		return
	}
	body := "content"
	if kind == models.KindEvents {
		body = "description"
	}
	title, _ := rec["title"].(string)
	text, _ := rec[body].(string)

	keywords := processing.ExtractKeywords(title+" "+text, p.cfg.KeywordLimit, p.cfg.KeywordMinLength)
	tags := make([]any, 0, len(keywords))
	for _, k := range keywords {
		tags = append(tags, k)
	}
	rec["tags"] = tags
}

// draftID derives the id of a draft submitted without one from its kind,
// title and body, so a redelivered message upserts the same record.
func draftID(kind models.Kind, draft map[string]any) string {
	body := "content"
	if kind == models.KindEvents {
		body = "description"
	}
	title, _ := draft["title"].(string)
	text, _ := draft[body].(string)
	return processing.BuildDocumentID(
		string(kind),
		strings.ToLower(strings.TrimSpace(title)),
		strings.TrimSpace(text),
	)
}

func draftKind(raw string) (models.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "news":
		return models.KindNews, nil
	case "event", "events":
		return models.KindEvents, nil
	default:
		return "", fmt.Errorf("unsupported draft type %q", raw)
	}
}
