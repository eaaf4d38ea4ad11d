// Package query holds the in-memory filter, sort and pagination helpers used
// by the listing endpoints.
package query

import (
	"strings"
	"time"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

// matchesQuery reports whether any field contains q, case-insensitively.
// An empty query matches everything.
func matchesQuery(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchesTags reports whether any of own contains any wanted tag as a
// case-insensitive substring. No wanted tags matches everything.
func MatchesTags(own, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, t := range own {
			if strings.Contains(strings.ToLower(t), w) {
				return true
			}
		}
	}
	return false
}

func matchesExact(want, got string) bool {
	return want == "" || want == got
}

func inRange(r *models.DateRange, t time.Time) bool {
	return r == nil || r.Contains(t)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// FilterFaculty narrows faculty by name/title/bio/department/research areas,
// research-area tags and status.
func FilterFaculty(items []models.FacultyMember, f models.SearchFilters) []models.FacultyMember {
	return filter(items, func(m models.FacultyMember) bool {
		fields := append([]string{m.Name, m.Title, m.Bio, m.Department}, m.ResearchAreas...)
		return matchesQuery(f.Query, fields...) &&
			MatchesTags(m.ResearchAreas, f.Tags) &&
			matchesExact(f.Status, m.Status)
	})
}

// FilterResearch narrows projects; the date range applies to the start date.
func FilterResearch(items []models.ResearchProject, f models.SearchFilters) []models.ResearchProject {
	return filter(items, func(p models.ResearchProject) bool {
		fields := append([]string{p.Title, p.Description, p.PrincipalInvestigator}, p.Collaborators...)
		return matchesQuery(f.Query, fields...) &&
			MatchesTags(p.Tags, f.Tags) &&
			matchesExact(f.Status, p.Status) &&
			inRange(f.DateRange, p.StartDate)
	})
}

// FilterNews narrows articles; the date range applies to the publication date.
func FilterNews(items []models.NewsArticle, f models.SearchFilters) []models.NewsArticle {
	return filter(items, func(a models.NewsArticle) bool {
		return matchesQuery(f.Query, a.Title, a.Excerpt, a.Content, a.Author) &&
			MatchesTags(a.Tags, f.Tags) &&
			matchesExact(f.Category, a.Category) &&
			inRange(f.DateRange, a.PublishedAt)
	})
}

// FilterEvents narrows events; Category matches the event type.
func FilterEvents(items []models.Event, f models.SearchFilters) []models.Event {
	return filter(items, func(e models.Event) bool {
		return matchesQuery(f.Query, e.Title, e.Description, e.Location, e.Speaker) &&
			MatchesTags(e.Tags, f.Tags) &&
			matchesExact(f.Category, e.Type) &&
			inRange(f.DateRange, e.Date)
	})
}
