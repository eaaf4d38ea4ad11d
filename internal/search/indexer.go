package search

import (
	"strconv"
	"strings"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

// searchable joins the non-empty parts with single spaces and lowercases the result.
func searchable(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

func lowerTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.ToLower(t))
	}
	return out
}

// CreateFacultyIndex indexes faculty with their research areas, education and publications.
func CreateFacultyIndex(items []models.FacultyMember) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, m := range items {
		parts := []string{m.Name, m.Title, m.Department, m.Bio}
		parts = append(parts, m.ResearchAreas...)
		for _, e := range m.Education {
			parts = append(parts, e.Degree+" "+e.Institution+" "+e.Field)
		}
		for _, p := range m.Publications {
			parts = append(parts, p.Title+" "+p.Journal)
		}
		out = append(out, models.SearchIndex{
			ID:             m.ID,
			Type:           models.TypeFaculty,
			Title:          m.Name,
			Content:        m.Bio,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(m.ResearchAreas),
			Metadata: models.FacultyMetadata{
				Title:      m.Title,
				Department: m.Department,
				Email:      m.Email,
				ImageURL:   m.ImageURL,
			},
		})
	}
	return out
}

// CreateResearchIndex indexes projects with their investigators, funding source and tags.
func CreateResearchIndex(items []models.ResearchProject) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, p := range items {
		parts := []string{p.Title, p.Description, p.PrincipalInvestigator, p.FundingSource}
		parts = append(parts, p.Collaborators...)
		parts = append(parts, p.Tags...)
		out = append(out, models.SearchIndex{
			ID:             p.ID,
			Type:           models.TypeResearch,
			Title:          p.Title,
			Content:        p.Description,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(p.Tags),
			Metadata: models.ResearchMetadata{
				Status:                p.Status,
				PrincipalInvestigator: p.PrincipalInvestigator,
				StartDate:             p.StartDate,
				EndDate:               p.EndDate,
				FundingSource:         p.FundingSource,
			},
		})
	}
	return out
}

// CreateNewsIndex indexes articles with their author, category and tags.
func CreateNewsIndex(items []models.NewsArticle) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, a := range items {
		parts := []string{a.Title, a.Excerpt, a.Content, a.Author, a.Category}
		parts = append(parts, a.Tags...)
		out = append(out, models.SearchIndex{
			ID:             a.ID,
			Type:           models.TypeNews,
			Title:          a.Title,
			Content:        a.Excerpt,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(a.Tags),
			Metadata: models.NewsMetadata{
				Slug:        a.Slug,
				Author:      a.Author,
				PublishedAt: a.PublishedAt,
				Category:    a.Category,
			},
		})
	}
	return out
}

// CreateEventsIndex indexes events with their location, speaker, type and tags.
func CreateEventsIndex(items []models.Event) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, e := range items {
		parts := []string{e.Title, e.Description, e.Location, e.Speaker, e.Type}
		parts = append(parts, e.Tags...)
		out = append(out, models.SearchIndex{
			ID:             e.ID,
			Type:           models.TypeEvent,
			Title:          e.Title,
			Content:        e.Description,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(e.Tags),
			Metadata: models.EventMetadata{
				Date:     e.Date,
				Location: e.Location,
				Type:     e.Type,
				Speaker:  e.Speaker,
			},
		})
	}
	return out
}

// CreatePublicationsIndex indexes publications with their venue, year, authors and tags.
func CreatePublicationsIndex(items []models.PublicationResource) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, p := range items {
		parts := []string{p.Title, p.Abstract, p.Venue, strconv.Itoa(p.Year)}
		parts = append(parts, p.Authors...)
		parts = append(parts, p.Tags...)
		out = append(out, models.SearchIndex{
			ID:             p.ID,
			Type:           models.TypePublication,
			Title:          p.Title,
			Content:        p.Abstract,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(p.Tags),
			Metadata: models.PublicationMetadata{
				Authors: p.Authors,
				Venue:   p.Venue,
				Year:    p.Year,
				DOI:     p.DOI,
				URL:     p.URL,
			},
		})
	}
	return out
}

// CreateDatasetsIndex indexes datasets with their format, license and tags.
func CreateDatasetsIndex(items []models.DatasetResource) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, d := range items {
		parts := []string{d.Name, d.Description, d.Format, d.License}
		parts = append(parts, d.Tags...)
		out = append(out, models.SearchIndex{
			ID:             d.ID,
			Type:           models.TypeDataset,
			Title:          d.Name,
			Content:        d.Description,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(d.Tags),
			Metadata: models.DatasetMetadata{
				Format:      d.Format,
				AccessLevel: d.AccessLevel,
				Size:        d.Size,
				URL:         d.URL,
			},
		})
	}
	return out
}

// CreateSoftwareIndex indexes software tools with their language, license and tags.
func CreateSoftwareIndex(items []models.SoftwareTool) []models.SearchIndex {
	out := make([]models.SearchIndex, 0, len(items))
	for _, s := range items {
		parts := []string{s.Name, s.Description, s.Language, s.License}
		parts = append(parts, s.Tags...)
		out = append(out, models.SearchIndex{
			ID:             s.ID,
			Type:           models.TypeSoftware,
			Title:          s.Name,
			Content:        s.Description,
			SearchableText: searchable(parts...),
			Tags:           lowerTags(s.Tags),
			Metadata: models.SoftwareMetadata{
				Language:      s.Language,
				License:       s.License,
				RepositoryURL: s.RepositoryURL,
				Version:       s.Version,
			},
		})
	}
	return out
}
