package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

// SaveNewsArticle inserts or replaces an article in news/sample.json.
func (l *Loader) SaveNewsArticle(ctx context.Context, a models.NewsArticle) error {
	return l.upsert(ctx, models.KindNews, a.ID, a)
}

// SaveEvent inserts or replaces an event in events/sample.json.
func (l *Loader) SaveEvent(ctx context.Context, e models.Event) error {
	return l.upsert(ctx, models.KindEvents, e.ID, e)
}

// upsert rewrites a collection file with record replacing the element that
// carries the same id, or appended when none does. Other elements are kept
// verbatim. The file is replaced atomically.
func (l *Loader) upsert(ctx context.Context, kind models.Kind, id string, record any) error {
	if id == "" {
		return errors.New("save record: empty id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.Path(kind)
	var items []json.RawMessage
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read %s: %w", collectionFiles[kind], err)
	default:
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode %s: %w", collectionFiles[kind], err)
		}
	}

	replaced := false
	for i, item := range items {
		var head struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(item, &head) == nil && head.ID == id {
			items[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, encoded)
	}

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collectionFiles[kind], err)
	}
	if err := writeAtomic(path, append(out, '\n')); err != nil {
		return err
	}
	l.log.Info("record saved", "kind", string(kind), "id", id, "replaced", replaced)
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
