package loader

import (
	"context"
	"fmt"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/query"
)

// find returns the first item matching, or nil data when nothing does.
// A failed load stays failed.
func find[T any](resp models.ApiResponse[[]T], match func(T) bool) models.ApiResponse[*T] {
	if !resp.Success {
		return models.ApiResponse[*T]{Success: false, Error: resp.Error}
	}
	for i := range resp.Data {
		if match(resp.Data[i]) {
			item := resp.Data[i]
			return models.OK(&item, "")
		}
	}
	return models.OK[*T](nil, "not found")
}

func (l *Loader) GetFacultyMemberByID(ctx context.Context, id string) models.ApiResponse[*models.FacultyMember] {
	return find(l.LoadFacultyMembers(ctx), func(m models.FacultyMember) bool { return m.ID == id })
}

func (l *Loader) GetResearchProjectByID(ctx context.Context, id string) models.ApiResponse[*models.ResearchProject] {
	return find(l.LoadResearchProjects(ctx), func(p models.ResearchProject) bool { return p.ID == id })
}

func (l *Loader) GetNewsArticleByID(ctx context.Context, id string) models.ApiResponse[*models.NewsArticle] {
	return find(l.LoadNewsArticles(ctx), func(a models.NewsArticle) bool { return a.ID == id })
}

func (l *Loader) GetNewsArticleBySlug(ctx context.Context, slug string) models.ApiResponse[*models.NewsArticle] {
	return find(l.LoadNewsArticles(ctx), func(a models.NewsArticle) bool { return a.Slug == slug })
}

func (l *Loader) GetEventByID(ctx context.Context, id string) models.ApiResponse[*models.Event] {
	return find(l.LoadEvents(ctx), func(e models.Event) bool { return e.ID == id })
}

func (l *Loader) GetProgramByID(ctx context.Context, id string) models.ApiResponse[*models.AcademicProgram] {
	return find(l.LoadPrograms(ctx), func(p models.AcademicProgram) bool { return p.ID == id })
}

// listing filters, optionally sorts and paginates a loaded collection.
func listing[T any](
	resp models.ApiResponse[[]T],
	filter func([]T) []T,
	sortBy func(models.SortOptions) (query.Sort[T], bool),
	opts *models.SortOptions,
	page, limit int,
) models.PaginatedResponse[T] {
	if !resp.Success {
		return failedPage[T](resp.Error)
	}
	items := filter(resp.Data)
	if opts != nil && opts.Field != "" {
		s, ok := sortBy(*opts)
		if !ok {
			return failedPage[T](fmt.Sprintf("unknown sort field %q", opts.Field))
		}
		items = query.SortData(items, s)
	}
	return query.PaginateData(items, page, limit)
}

func failedPage[T any](msg string) models.PaginatedResponse[T] {
	return models.PaginatedResponse[T]{
		Data:    models.Page[T]{Items: []T{}},
		Success: false,
		Error:   msg,
	}
}

func (l *Loader) SearchFacultyMembers(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.FacultyMember] {
	return listing(l.LoadFacultyMembers(ctx),
		func(items []models.FacultyMember) []models.FacultyMember { return query.FilterFaculty(items, f) },
		query.FacultySort, sort, page, limit)
}

func (l *Loader) SearchResearchProjects(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.ResearchProject] {
	return listing(l.LoadResearchProjects(ctx),
		func(items []models.ResearchProject) []models.ResearchProject { return query.FilterResearch(items, f) },
		query.ResearchSort, sort, page, limit)
}

func (l *Loader) SearchNewsArticles(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.NewsArticle] {
	return listing(l.LoadNewsArticles(ctx),
		func(items []models.NewsArticle) []models.NewsArticle { return query.FilterNews(items, f) },
		query.NewsSort, sort, page, limit)
}

func (l *Loader) SearchEvents(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.Event] {
	return listing(l.LoadEvents(ctx),
		func(items []models.Event) []models.Event { return query.FilterEvents(items, f) },
		query.EventSort, sort, page, limit)
}
