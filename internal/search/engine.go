// Package search flattens content collections into index records and ranks
// them against free-text queries.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/processing"
)

const (
	DefaultLimit        = 10
	DefaultMinRelevance = 0.1

	// AnyRelevance passed as SearchOptions.MinRelevanceScore keeps every
	// record that matches at least one term.
	AnyRelevance = -1.0

	titleWeight     = 3.0
	exactTitleBonus = 3.0
	tagWeight       = 2.0

	maxTagFacets      = 20
	maxSuggestions    = 5
	descriptionLength = 200
)

type scored struct {
	record models.SearchIndex
	score  float64
}

// Tokenize lowercases the query and splits it on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search ranks index against opts.Query. An empty query matches nothing.
// Results with equal scores keep their index order.
func Search(index []models.SearchIndex, opts models.SearchOptions) models.SearchResponse {
	resp := models.SearchResponse{
		Results:     []models.SearchResult{},
		Query:       opts.Query,
		Suggestions: []string{},
		Facets: models.Facets{
			Types: []models.TypeFacet{},
			Tags:  []models.TagFacet{},
		},
	}

	terms := Tokenize(opts.Query)
	if len(terms) == 0 {
		return resp
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := max(opts.Offset, 0)
	minScore := opts.MinRelevanceScore
	switch {
	case minScore < 0:
		minScore = math.SmallestNonzeroFloat64
	case minScore == 0:
		minScore = DefaultMinRelevance
	}

	var hits []scored
	for _, rec := range index {
		if !typeAllowed(rec.Type, opts.Types) || !tagsAllowed(rec.Tags, opts.Tags) {
			continue
		}
		s := Score(rec, terms)
		if s < minScore {
			continue
		}
		hits = append(hits, scored{record: rec, score: s})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	resp.Total = len(hits)
	if offset < len(hits) {
		end := min(offset+limit, len(hits))
		for _, h := range hits[offset:end] {
			resp.Results = append(resp.Results, models.SearchResult{
				ID:             h.record.ID,
				Type:           h.record.Type,
				Title:          h.record.Title,
				Description:    processing.Truncate(h.record.Content, descriptionLength),
				URL:            ResultURL(h.record),
				RelevanceScore: h.score,
				Highlights:     Highlights(h.record.SearchableText, terms),
				Metadata:       h.record.Metadata,
			})
		}
	}

	resp.Facets = buildFacets(hits)
	resp.Suggestions = Suggestions(index, opts.Query)
	return resp
}

// Score computes the relevance of rec for the lowercase terms: +3 per term
// found in the title, +3 more when the title is exactly the term, +1 per
// occurrence in the searchable text and +2 when any tag contains the term.
// The sum is divided by the number of terms.
func Score(rec models.SearchIndex, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(rec.Title)
	text := strings.ToLower(rec.SearchableText)

	var total float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			total += titleWeight
			if title == term {
				total += exactTitleBonus
			}
		}
		total += float64(strings.Count(text, term))
		for _, tag := range rec.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				total += tagWeight
				break
			}
		}
	}
	return total / float64(len(terms))
}

func typeAllowed(t models.ContentType, types []models.ContentType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

// tagsAllowed keeps records where some own tag contains some requested tag.
func tagsAllowed(own, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		w = strings.ToLower(w)
		for _, t := range own {
			if strings.Contains(strings.ToLower(t), w) {
				return true
			}
		}
	}
	return false
}

// ResultURL maps a record to the page that renders it.
func ResultURL(rec models.SearchIndex) string {
	switch rec.Type {
	case models.TypeFaculty:
		return "/faculty/" + rec.ID
	case models.TypeResearch:
		return "/research/" + rec.ID
	case models.TypeNews:
		slug := rec.ID
		switch m := rec.Metadata.(type) {
		case models.NewsMetadata:
			if m.Slug != "" {
				slug = m.Slug
			}
		case *models.NewsMetadata:
			if m != nil && m.Slug != "" {
				slug = m.Slug
			}
		}
		return "/news/" + slug
	case models.TypeEvent:
		return "/events#" + rec.ID
	case models.TypePublication:
		return "/resources/publications#" + rec.ID
	case models.TypeDataset, models.TypeSoftware:
		return "/resources#" + rec.ID
	default:
		return "/"
	}
}

func buildFacets(hits []scored) models.Facets {
	typeCounts := make(map[models.ContentType]int)
	var typeOrder []models.ContentType
	tagCounts := make(map[string]int)
	var tagOrder []string

	for _, h := range hits {
		if typeCounts[h.record.Type] == 0 {
			typeOrder = append(typeOrder, h.record.Type)
		}
		typeCounts[h.record.Type]++
		for _, tag := range h.record.Tags {
			if tagCounts[tag] == 0 {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}

	facets := models.Facets{
		Types: make([]models.TypeFacet, 0, len(typeOrder)),
		Tags:  make([]models.TagFacet, 0, len(tagOrder)),
	}
	for _, t := range typeOrder {
		facets.Types = append(facets.Types, models.TypeFacet{Type: t, Count: typeCounts[t]})
	}
	for _, t := range tagOrder {
		facets.Tags = append(facets.Tags, models.TagFacet{Tag: t, Count: tagCounts[t]})
	}
	sort.SliceStable(facets.Types, func(i, j int) bool { return facets.Types[i].Count > facets.Types[j].Count })
	sort.SliceStable(facets.Tags, func(i, j int) bool { return facets.Tags[i].Count > facets.Tags[j].Count })
	if len(facets.Tags) > maxTagFacets {
		facets.Tags = facets.Tags[:maxTagFacets]
	}
	return facets
}

// Suggestions returns up to five distinct titles or tags from the whole index
// that contain the query without being equal to it.
func Suggestions(index []models.SearchIndex, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	if q == "" {
		return out
	}
	seen := make(map[string]struct{})
	add := func(candidate string) bool {
		lower := strings.ToLower(candidate)
		if lower == q || !strings.Contains(lower, q) {
			return false
		}
		if _, dup := seen[candidate]; dup {
			return false
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
		return len(out) >= maxSuggestions
	}
	for _, rec := range index {
		if add(rec.Title) {
			return out
		}
		for _, tag := range rec.Tags {
			if add(tag) {
				return out
			}
		}
	}
	return out
}
