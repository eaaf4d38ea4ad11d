package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

// Source is the loader surface Collect reads from.
type Source interface {
	LoadFacultyMembers(ctx context.Context) models.ApiResponse[[]models.FacultyMember]
	LoadResearchProjects(ctx context.Context) models.ApiResponse[[]models.ResearchProject]
	LoadNewsArticles(ctx context.Context) models.ApiResponse[[]models.NewsArticle]
	LoadEvents(ctx context.Context) models.ApiResponse[[]models.Event]
	LoadPublications(ctx context.Context) models.ApiResponse[[]models.PublicationResource]
	LoadDatasets(ctx context.Context) models.ApiResponse[[]models.DatasetResource]
	LoadSoftwareTools(ctx context.Context) models.ApiResponse[[]models.SoftwareTool]
}

// Collect loads every indexed collection and concatenates their indexes.
// Collections that fail to load are skipped and reported in the returned
// error; the index built from the rest is still returned.
func Collect(ctx context.Context, src Source) ([]models.SearchIndex, error) {
	var (
		index []models.SearchIndex
		errs  []error
	)

	add := func(t models.ContentType, ok bool, msg string, build func() []models.SearchIndex) {
		if !ok {
			errs = append(errs, fmt.Errorf("load %s: %s", t, msg))
			return
		}
		index = append(index, build()...)
	}

	faculty := src.LoadFacultyMembers(ctx)
	add(models.TypeFaculty, faculty.Success, faculty.Error, func() []models.SearchIndex { return CreateFacultyIndex(faculty.Data) })

	research := src.LoadResearchProjects(ctx)
	add(models.TypeResearch, research.Success, research.Error, func() []models.SearchIndex { return CreateResearchIndex(research.Data) })

	news := src.LoadNewsArticles(ctx)
	add(models.TypeNews, news.Success, news.Error, func() []models.SearchIndex { return CreateNewsIndex(news.Data) })

	events := src.LoadEvents(ctx)
	add(models.TypeEvent, events.Success, events.Error, func() []models.SearchIndex { return CreateEventsIndex(events.Data) })

	pubs := src.LoadPublications(ctx)
	add(models.TypePublication, pubs.Success, pubs.Error, func() []models.SearchIndex { return CreatePublicationsIndex(pubs.Data) })

	datasets := src.LoadDatasets(ctx)
	add(models.TypeDataset, datasets.Success, datasets.Error, func() []models.SearchIndex { return CreateDatasetsIndex(datasets.Data) })

	tools := src.LoadSoftwareTools(ctx)
	add(models.TypeSoftware, tools.Success, tools.Error, func() []models.SearchIndex { return CreateSoftwareIndex(tools.Data) })

	return index, errors.Join(errs...)
}
