// Package loader reads content collections from disk, validates them and
// wraps every outcome in a response envelope. Nothing is cached: each call
// re-reads its files.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/DeafMist/dept-site/backend/internal/contentparser"
	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

var collectionFiles = map[models.Kind]string{
	models.KindFaculty:      filepath.Join("faculty", "sample.json"),
	models.KindResearch:     filepath.Join("research", "sample.json"),
	models.KindNews:         filepath.Join("news", "sample.json"),
	models.KindEvents:       filepath.Join("events", "sample.json"),
	models.KindPrograms:     filepath.Join("programs", "sample.json"),
	models.KindPublications: filepath.Join("resources", "publications.json"),
	models.KindDatasets:     filepath.Join("resources", "datasets.json"),
	models.KindSoftware:     filepath.Join("resources", "software.json"),
}

var collectionNames = map[models.Kind]string{
	models.KindFaculty:      "faculty members",
	models.KindResearch:     "research projects",
	models.KindNews:         "news articles",
	models.KindEvents:       "events",
	models.KindPrograms:     "academic programs",
	models.KindPublications: "publications",
	models.KindDatasets:     "datasets",
	models.KindSoftware:     "software tools",
}

// Loader serves content collections stored under a root directory.
type Loader struct {
	dir string
	log *slog.Logger

	// mu serialises collection writes.
	mu sync.Mutex
}

func New(dir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, log: log}
}

// Dir returns the content root.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the JSON file backing a collection.
func (l *Loader) Path(kind models.Kind) string {
	return filepath.Join(l.dir, collectionFiles[kind])
}

func (l *Loader) readJSON(ctx context.Context, kind models.Kind) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path(kind))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collectionFiles[kind], err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collectionFiles[kind], err)
	}
	return raw, nil
}

// load reads and validates one collection, converting any failure into a
// failed envelope.
func load[T any](ctx context.Context, l *Loader, kind models.Kind, validate func(any) ([]T, error)) models.ApiResponse[[]T] {
	items, err := func() ([]T, error) {
		raw, err := l.readJSON(ctx, kind)
		if err != nil {
			return nil, err
		}
		return validate(raw)
	}()
	if err != nil {
		return fail[[]T](l, kind, err)
	}
	return models.OK(items, "")
}

// fail logs a load failure and wraps it into a failed envelope.
func fail[T any](l *Loader, kind models.Kind, err error) models.ApiResponse[T] {
	l.log.Warn("load collection failed", "kind", string(kind), "err", err)
	return models.Fail[T](fmt.Errorf("failed to load %s: %w", collectionNames[kind], err))
}

// LoadFacultyMembers reads and validates faculty/sample.json.
func (l *Loader) LoadFacultyMembers(ctx context.Context) models.ApiResponse[[]models.FacultyMember] {
	return load(ctx, l, models.KindFaculty, validation.ValidateFacultyMembers)
}

// LoadResearchProjects reads and validates research/sample.json.
func (l *Loader) LoadResearchProjects(ctx context.Context) models.ApiResponse[[]models.ResearchProject] {
	return load(ctx, l, models.KindResearch, validation.ValidateResearchProjects)
}

// LoadEvents reads and validates events/sample.json.
func (l *Loader) LoadEvents(ctx context.Context) models.ApiResponse[[]models.Event] {
	return load(ctx, l, models.KindEvents, validation.ValidateEvents)
}

// LoadPrograms reads and validates programs/sample.json.
func (l *Loader) LoadPrograms(ctx context.Context) models.ApiResponse[[]models.AcademicProgram] {
	return load(ctx, l, models.KindPrograms, validation.ValidatePrograms)
}

// LoadPublications reads and validates resources/publications.json.
func (l *Loader) LoadPublications(ctx context.Context) models.ApiResponse[[]models.PublicationResource] {
	return load(ctx, l, models.KindPublications, validation.ValidatePublications)
}

// LoadDatasets reads and validates resources/datasets.json.
func (l *Loader) LoadDatasets(ctx context.Context) models.ApiResponse[[]models.DatasetResource] {
	return load(ctx, l, models.KindDatasets, validation.ValidateDatasets)
}

// LoadSoftwareTools reads and validates resources/software.json.
func (l *Loader) LoadSoftwareTools(ctx context.Context) models.ApiResponse[[]models.SoftwareTool] {
	return load(ctx, l, models.KindSoftware, validation.ValidateSoftwareTools)
}

// LoadNewsArticles reads news/sample.json followed by every Markdown or MDX
// post in the news directory, in file name order.
func (l *Loader) LoadNewsArticles(ctx context.Context) models.ApiResponse[[]models.NewsArticle] {
	resp := load(ctx, l, models.KindNews, validation.ValidateNewsArticles)
	if !resp.Success {
		return resp
	}
	posts, err := l.loadPosts(ctx)
	if err != nil {
		return fail[[]models.NewsArticle](l, models.KindNews, err)
	}
	resp.Data = append(resp.Data, posts...)
	return resp
}

func (l *Loader) loadPosts(ctx context.Context) ([]models.NewsArticle, error) {
	dir := filepath.Join(l.dir, "news")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && contentparser.IsMarkdown(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	posts := make([]models.NewsArticle, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", name, err)
		}
		rec, err := contentparser.NewsRecord(path, data)
		if err != nil {
			return nil, err
		}
		article, err := validation.ValidateNewsArticle(rec)
		if err != nil {
			return nil, fmt.Errorf("validate post %s: %w", name, err)
		}
		posts = append(posts, article)
	}
	return posts, nil
}
