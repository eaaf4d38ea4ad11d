package main

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/DeafMist/dept-site/backend/internal/contentparser"
)

// runOnce checks the content directory and logs every problem found.
func runOnce(ctx context.Context, log *slog.Logger, cfg *config.HealthCheck) (contentparser.Report, bool) {
	subCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	report, err := contentparser.CheckDirectory(subCtx, cfg.ContentDir, cfg.Workers)
	if err != nil {
		log.Warn("health check failed (will retry on next interval)", slog.Any("err", err))
		return report, false
	}

	for _, f := range report.Files {
		if f.Err != "" {
			log.Warn("content file unreadable", slog.String("path", f.Path), slog.String("err", f.Err))
		}
		for _, rec := range f.Invalid {
			log.Warn("invalid record",
				slog.String("path", f.Path),
				slog.Int("index", rec.Index),
				slog.String("id", rec.ID),
				slog.String("err", rec.Error),
			)
		}
	}
	kinds := slices.Sorted(maps.Keys(report.Duplicates))
	for _, kind := range kinds {
		log.Warn("duplicate ids", slog.String("kind", string(kind)), slog.Any("ids", report.Duplicates[kind]))
	}

	if report.OK() {
		log.Info("health check passed", slog.Int("files", len(report.Files)))
	} else {
		log.Warn("health check found problems",
			slog.Int("files", len(report.Files)),
			slog.Int("problems", report.Problems()),
		)
	}
	return report, report.OK()
}

// watcher turns bursts of filesystem events under a content root into single
// change notifications.
type watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	log      *slog.Logger
	changes  chan struct{}
}

func newWatcher(root string, debounce time.Duration, log *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fw, root: root, debounce: debounce, log: log, changes: make(chan struct{}, 1)}

	// fsnotify is not recursive; watch every collection directory.
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// C delivers one value per debounced burst of content changes.
func (w *watcher) C() <-chan struct{} {
	return w.changes
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

func (w *watcher) run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.fs.Add(ev.Name); err != nil {
						w.log.Warn("watch new directory", slog.String("path", ev.Name), slog.Any("err", err))
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			if w.debounce <= 0 {
				w.notify()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", slog.Any("err", err))
		case <-fire:
			fire = nil
			w.notify()
		}
	}
}

func (w *watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}
	_, ok := contentparser.KindForPath(rel)
	return ok
}

func (w *watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
