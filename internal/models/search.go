package models

import "time"

// SearchIndex is the flattened, denormalised projection of a content record.
// SearchableText is lowercase; Metadata is only displayed, never searched.
type SearchIndex struct {
	ID             string      `json:"id"`
	Type           ContentType `json:"type"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	SearchableText string      `json:"searchableText"`
	Tags           []string    `json:"tags"`
	Metadata       Metadata    `json:"metadata"`
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ID             string      `json:"id"`
	Type           ContentType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	URL            string      `json:"url"`
	RelevanceScore float64     `json:"relevanceScore"`
	Highlights     []string    `json:"highlights"`
	Metadata       Metadata    `json:"metadata"`
}

// TypeFacet counts results of one content type.
type TypeFacet struct {
	Type  ContentType `json:"type"`
	Count int         `json:"count"`
}

// TagFacet counts results carrying one tag.
type TagFacet struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Facets aggregates the pre-pagination result set.
type Facets struct {
	Types []TypeFacet `json:"types"`
	Tags  []TagFacet  `json:"tags"`
}

// SearchResponse is the outcome of one query.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	Total       int            `json:"total"`
	Query       string         `json:"query"`
	Suggestions []string       `json:"suggestions"`
	Facets      Facets         `json:"facets"`
}

// SearchOptions narrows a query. A zero Limit means 10. A zero
// MinRelevanceScore means 0.1; any negative value drops the minimum and keeps
// every record that matches a term.
type SearchOptions struct {
	Query             string
	Types             []ContentType
	Tags              []string
	Limit             int
	Offset            int
	MinRelevanceScore float64
}

// DateRange is inclusive; a zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// SearchFilters narrows listing endpoints.
type SearchFilters struct {
	Query     string
	Tags      []string
	Status    string
	Category  string
	DateRange *DateRange
}

// SortOptions names a sort field and direction ("asc" or "desc").
type SortOptions struct {
	Field     string
	Direction string
}
