package contentparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

// RecordError describes one record that failed strict validation.
type RecordError struct {
	Index  int               `json:"index"`
	ID     string            `json:"id,omitempty"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// FileResult is the outcome of checking one content file.
type FileResult struct {
	Path    string        `json:"path"`
	Kind    models.Kind   `json:"kind"`
	Records int           `json:"records"`
	Err     string        `json:"error,omitempty"`
	Invalid []RecordError `json:"invalid,omitempty"`

	ids []string
}

// OK reports whether the file parsed and every record validated.
func (f FileResult) OK() bool {
	return f.Err == "" && len(f.Invalid) == 0
}

// Report aggregates a directory check.
type Report struct {
	Dir        string                   `json:"dir"`
	CheckedAt  time.Time                `json:"checkedAt"`
	Files      []FileResult             `json:"files"`
	Duplicates map[models.Kind][]string `json:"duplicates,omitempty"`
}

// OK reports whether the whole directory is healthy.
func (r Report) OK() bool {
	return r.Problems() == 0
}

// Problems counts broken files, invalid records and duplicated ids.
func (r Report) Problems() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != "" {
			n++
		}
		n += len(f.Invalid)
	}
	for _, ids := range r.Duplicates {
		n += len(ids)
	}
	return n
}

// KindForPath maps a path relative to the content root to its collection.
func KindForPath(rel string) (models.Kind, bool) {
	rel = filepath.ToSlash(rel)
	dir, file, found := strings.Cut(rel, "/")
	if !found || strings.Contains(file, "/") {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(file))

	if dir == "resources" {
		if ext != ".json" {
			return "", false
		}
		switch strings.TrimSuffix(file, filepath.Ext(file)) {
		case "publications":
			return models.KindPublications, true
		case "datasets":
			return models.KindDatasets, true
		case "software":
			return models.KindSoftware, true
		}
		return "", false
	}

	kind, ok := models.ParseKind(dir)
	if !ok || kind == models.KindPublications || kind == models.KindDatasets || kind == models.KindSoftware {
		return "", false
	}
	switch {
	case ext == ".json":
		return kind, true
	case IsMarkdown(file) && kind == models.KindNews:
		return kind, true
	}
	return "", false
}

// CheckDirectory validates every content file under dir on a pool of
// workers. Unlike the loader it reports every invalid record instead of
// stopping at the first, and it flags ids repeated within a collection.
func CheckDirectory(ctx context.Context, dir string, workers int) (Report, error) {
	report := Report{Dir: dir, CheckedAt: time.Now().UTC(), Files: []FileResult{}}

	type job struct {
		path string
		kind models.Kind
	}
	var jobs []job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if kind, ok := KindForPath(rel(dir, path)); ok {
			jobs = append(jobs, job{path: path, kind: kind})
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walk content dir: %w", err)
	}

	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	collect := func(res FileResult) {
		mu.Lock()
		report.Files = append(report.Files, res)
		mu.Unlock()
	}

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			collect(checkFile(ctx, dir, j.path, j.kind))
		})
		if submitErr != nil {
			wg.Done()
			collect(FileResult{Path: rel(dir, j.path), Kind: j.kind, Err: fmt.Sprintf("schedule check: %v", submitErr)})
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("check content dir: %w", err)
	}

	slices.SortFunc(report.Files, func(a, b FileResult) int { return strings.Compare(a.Path, b.Path) })
	report.Duplicates = duplicatesByKind(report.Files)
	return report, nil
}

func checkFile(ctx context.Context, root, path string, kind models.Kind) FileResult {
	res := FileResult{Path: rel(root, path), Kind: kind}
	if err := ctx.Err(); err != nil {
		res.Err = err.Error()
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Sprintf("read file: %v", err)
		return res
	}

	var records []any
	if IsMarkdown(path) {
		rec, err := NewsRecord(path, data)
		if err != nil {
			res.Err = err.Error()
			return res
		}
		records = []any{rec}
	} else {
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			res.Err = fmt.Sprintf("decode json: %v", err)
			return res
		}
		items, ok := raw.([]any)
		if !ok {
			res.Err = "expected a JSON array of records"
			return res
		}
		records = items
	}

	res.Records = len(records)
	for i, item := range records {
		id, _ := recordID(item)
		if id != "" {
			res.ids = append(res.ids, id)
		}
		if _, err := validation.ValidateRecord(kind, item); err != nil {
			re := RecordError{Index: i, ID: id, Error: err.Error()}
			var verr *validation.ValidationError
			if errors.As(err, &verr) {
				re.Fields = verr.Fields
			}
			res.Invalid = append(res.Invalid, re)
		}
	}
	return res
}

func duplicatesByKind(files []FileResult) map[models.Kind][]string {
	byKind := make(map[models.Kind][]string)
	for _, f := range files {
		byKind[f.Kind] = append(byKind[f.Kind], f.ids...)
	}
	out := make(map[models.Kind][]string)
	for kind, ids := range byKind {
		if dups := repeated(ids); len(dups) > 0 {
			out[kind] = dups
		}
	}
	return out
}

func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}
