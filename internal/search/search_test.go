package search_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/search"
)

func johnDoe() models.FacultyMember {
	return models.FacultyMember{
		ID:            "john-doe",
		Name:          "Dr. John Doe",
		Title:         "Professor",
		Department:    "Computer Science",
		Email:         "john.doe@university.edu",
		Bio:           "Expert in machine learning and artificial intelligence",
		ResearchAreas: []string{"Machine Learning", "AI", "Data Science"},
		Education: []models.Education{
			{Degree: "PhD", Institution: "MIT", Field: "Computer Science", Year: 2010},
		},
		Publications: []models.FacultyPublication{
			{Title: "Deep Learning Advances", Journal: "Nature", Year: 2020},
		},
	}
}

func healthProject() models.ResearchProject {
	return models.ResearchProject{
		ID:                    "ai-health",
		Title:                 "AI for Healthcare",
		Description:           "Applying machine learning to medical diagnostics",
		PrincipalInvestigator: "Dr. Jane Smith",
		Status:                "active",
		StartDate:             time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags:                  []string{"AI", "Healthcare"},
	}
}

func combined() []models.SearchIndex {
	idx := search.CreateFacultyIndex([]models.FacultyMember{johnDoe()})
	return append(idx, search.CreateResearchIndex([]models.ResearchProject{healthProject()})...)
}

func TestCreateFacultyIndex(t *testing.T) {
	idx := search.CreateFacultyIndex([]models.FacultyMember{johnDoe()})
	require.Len(t, idx, 1)

	rec := idx[0]
	require.Equal(t, models.TypeFaculty, rec.Type)
	require.Equal(t, "Dr. John Doe", rec.Title)
	require.Equal(t, []string{"machine learning", "ai", "data science"}, rec.Tags)
	require.Equal(t, strings.ToLower(rec.SearchableText), rec.SearchableText)
	require.Contains(t, rec.SearchableText, "phd mit computer science")
	require.Contains(t, rec.SearchableText, "deep learning advances nature")
	require.NotContains(t, rec.SearchableText, "  ")
	require.Equal(t, models.FacultyMetadata{Title: "Professor", Department: "Computer Science", Email: "john.doe@university.edu"}, rec.Metadata)
}

func TestCreateIndexesForEveryType(t *testing.T) {
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	news := search.CreateNewsIndex([]models.NewsArticle{{ID: "n1", Slug: "lab-opens", Title: "Lab Opens", Excerpt: "New lab", Content: "Full story", Author: "Comms", PublishedAt: published, Category: "general", Tags: []string{"Labs"}}})
	events := search.CreateEventsIndex([]models.Event{{ID: "e1", Title: "Seminar", Description: "Talk", Location: "Hall A", Type: "seminar", Speaker: "Dr. Who"}})
	pubs := search.CreatePublicationsIndex([]models.PublicationResource{{ID: "p1", Title: "Graphs", Authors: []string{"A. Author"}, Venue: "ICML", Year: 2022, Type: "conference"}})
	datasets := search.CreateDatasetsIndex([]models.DatasetResource{{ID: "d1", Name: "Traffic", Description: "Counts", Format: "CSV", AccessLevel: "public"}})
	tools := search.CreateSoftwareIndex([]models.SoftwareTool{{ID: "s1", Name: "Grapher", Description: "Plots", Language: "Go"}})

	require.Equal(t, "lab opens new lab full story comms general labs", news[0].SearchableText)
	require.Equal(t, models.NewsMetadata{Slug: "lab-opens", Author: "Comms", PublishedAt: published, Category: "general"}, news[0].Metadata)
	require.Equal(t, "seminar talk hall a dr. who seminar", events[0].SearchableText)
	require.Contains(t, pubs[0].SearchableText, "a. author")
	require.Contains(t, pubs[0].SearchableText, "2022")
	require.Equal(t, models.TypeDataset, datasets[0].Type)
	require.Equal(t, "grapher plots go", tools[0].SearchableText)
	require.Empty(t, tools[0].Tags)
}

func TestSearchFacultyScenario(t *testing.T) {
	resp := search.Search(search.CreateFacultyIndex([]models.FacultyMember{johnDoe()}), models.SearchOptions{Query: "machine learning"})

	require.Len(t, resp.Results, 1)
	require.Equal(t, 1, resp.Total)
	require.Equal(t, "machine learning", resp.Query)

	r := resp.Results[0]
	require.Greater(t, r.RelevanceScore, 0.0)
	require.Equal(t, "/faculty/john-doe", r.URL)
	require.Equal(t, "Expert in machine learning and artificial intelligence", r.Description)
	require.NotEmpty(t, r.Highlights)
	require.Contains(t, r.Highlights[0], "<mark>machine</mark>")
	require.LessOrEqual(t, len(r.Highlights), 3)
}

func TestSearchTypeFacets(t *testing.T) {
	resp := search.Search(combined(), models.SearchOptions{Query: "AI"})

	require.Equal(t, 2, resp.Total)
	require.ElementsMatch(t, []models.TypeFacet{
		{Type: models.TypeFaculty, Count: 1},
		{Type: models.TypeResearch, Count: 1},
	}, resp.Facets.Types)
	require.Equal(t, models.TagFacet{Tag: "ai", Count: 2}, resp.Facets.Tags[0])
}

func TestSearchTagFilterNarrowsResults(t *testing.T) {
	resp := search.Search(combined(), models.SearchOptions{Query: "AI", Tags: []string{"healthcare"}})

	require.Len(t, resp.Results, 1)
	require.Equal(t, "ai-health", resp.Results[0].ID)
	require.Equal(t, "/research/ai-health", resp.Results[0].URL)
}

func TestSearchTypeFilter(t *testing.T) {
	resp := search.Search(combined(), models.SearchOptions{Query: "AI", Types: []models.ContentType{models.TypeFaculty}})
	require.Len(t, resp.Results, 1)
	require.Equal(t, models.TypeFaculty, resp.Results[0].Type)
}

func TestSearchEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		resp := search.Search(combined(), models.SearchOptions{Query: q})
		require.Empty(t, resp.Results)
		require.NotNil(t, resp.Results)
		require.Zero(t, resp.Total)
		require.Empty(t, resp.Suggestions)
		require.Empty(t, resp.Facets.Types)
		require.Empty(t, resp.Facets.Tags)
	}
}

func TestScoreExactTitleBeatsSubstring(t *testing.T) {
	exact := models.SearchIndex{ID: "a", Title: "Robotics", SearchableText: "robotics lab projects"}
	partial := models.SearchIndex{ID: "b", Title: "Robotics Lab", SearchableText: "robotics lab projects"}

	terms := search.Tokenize("robotics")
	require.Greater(t, search.Score(exact, terms), search.Score(partial, terms))
	require.Equal(t, 7.0, search.Score(exact, terms))
	require.Equal(t, 4.0, search.Score(partial, terms))

	resp := search.Search([]models.SearchIndex{partial, exact}, models.SearchOptions{Query: "Robotics"})
	require.Equal(t, "a", resp.Results[0].ID)
}

func TestScoreNormalisesByTokenCount(t *testing.T) {
	rec := models.SearchIndex{Title: "Graph Learning", SearchableText: "graph learning graph", Tags: []string{"graphs"}}
	// graph: title 3 + 2 occurrences + tag 2 = 7; learning: title 3 + 1 occurrence = 4.
	require.Equal(t, 5.5, search.Score(rec, search.Tokenize("graph learning")))
	require.Equal(t, 0.0, search.Score(rec, nil))
}

func TestSearchMinRelevanceAndOrdering(t *testing.T) {
	index := []models.SearchIndex{
		{ID: "low", Type: models.TypeNews, Title: "Other", SearchableText: "quantum"},
		{ID: "high", Type: models.TypeNews, Title: "Quantum", SearchableText: "quantum quantum"},
		{ID: "tie", Type: models.TypeNews, Title: "Misc", SearchableText: "quantum"},
		{ID: "none", Type: models.TypeNews, Title: "Nothing", SearchableText: "classical"},
	}

	resp := search.Search(index, models.SearchOptions{Query: "quantum"})
	require.Equal(t, 3, resp.Total)
	require.Equal(t, []string{"high", "low", "tie"}, resultIDs(resp))

	resp = search.Search(index, models.SearchOptions{Query: "quantum", MinRelevanceScore: 2})
	require.Equal(t, []string{"high"}, resultIDs(resp))
}

func TestSearchAnyRelevance(t *testing.T) {
	index := []models.SearchIndex{
		{ID: "weak", Type: models.TypeNews, Title: "Note", SearchableText: "quantum"},
		{ID: "none", Type: models.TypeNews, Title: "Nothing", SearchableText: "classical"},
	}
	// one occurrence spread over eleven terms scores 1/11, under the default minimum
	query := "quantum 1 2 3 4 5 6 7 8 9 10"

	resp := search.Search(index, models.SearchOptions{Query: query})
	require.Empty(t, resp.Results)

	resp = search.Search(index, models.SearchOptions{Query: query, MinRelevanceScore: search.AnyRelevance})
	require.Equal(t, []string{"weak"}, resultIDs(resp))
}

func TestSearchPagination(t *testing.T) {
	var index []models.SearchIndex
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		index = append(index, models.SearchIndex{ID: id, Type: models.TypeEvent, Title: "Talk " + id, SearchableText: "talk"})
	}

	resp := search.Search(index, models.SearchOptions{Query: "talk", Limit: 2, Offset: 2})
	require.Equal(t, 5, resp.Total)
	require.Equal(t, []string{"c", "d"}, resultIDs(resp))
	require.Equal(t, []models.TypeFacet{{Type: models.TypeEvent, Count: 5}}, resp.Facets.Types)

	resp = search.Search(index, models.SearchOptions{Query: "talk", Offset: 10})
	require.Empty(t, resp.Results)
	require.Equal(t, 5, resp.Total)
}

func TestSearchIsIdempotent(t *testing.T) {
	opts := models.SearchOptions{Query: "machine AI", Limit: 5}
	require.Equal(t, search.Search(combined(), opts), search.Search(combined(), opts))
}

func TestTagFacetsTopTwenty(t *testing.T) {
	var index []models.SearchIndex
	for i := range 25 {
		tags := []string{"shared", "tag-" + string(rune('a'+i))}
		index = append(index, models.SearchIndex{ID: string(rune('a' + i)), Type: models.TypeDataset, Title: "Data", SearchableText: "data", Tags: tags})
	}
	resp := search.Search(index, models.SearchOptions{Query: "data", Limit: 100})
	require.Len(t, resp.Facets.Tags, 20)
	require.Equal(t, models.TagFacet{Tag: "shared", Count: 25}, resp.Facets.Tags[0])
	require.Equal(t, models.TagFacet{Tag: "tag-a", Count: 1}, resp.Facets.Tags[1])
}

func TestSuggestions(t *testing.T) {
	index := []models.SearchIndex{
		{Title: "Learning Systems", Tags: []string{"machine learning", "learning"}},
		{Title: "Deep Learning", Tags: []string{"deep learning"}},
		{Title: "Learning Systems"},
		{Title: "Unrelated"},
	}
	got := search.Suggestions(index, "Learning")
	require.Equal(t, []string{"Learning Systems", "machine learning", "Deep Learning", "deep learning"}, got)

	var many []models.SearchIndex
	for i := range 10 {
		many = append(many, models.SearchIndex{Title: "Robot " + string(rune('A'+i))})
	}
	require.Len(t, search.Suggestions(many, "robot"), 5)
	require.Empty(t, search.Suggestions(many, " "))
}

func TestResultURL(t *testing.T) {
	tests := []struct {
		rec  models.SearchIndex
		want string
	}{
		{rec: models.SearchIndex{ID: "f", Type: models.TypeFaculty}, want: "/faculty/f"},
		{rec: models.SearchIndex{ID: "r", Type: models.TypeResearch}, want: "/research/r"},
		{rec: models.SearchIndex{ID: "n", Type: models.TypeNews, Metadata: models.NewsMetadata{Slug: "big-news"}}, want: "/news/big-news"},
		{rec: models.SearchIndex{ID: "n", Type: models.TypeNews}, want: "/news/n"},
		{rec: models.SearchIndex{ID: "e", Type: models.TypeEvent}, want: "/events#e"},
		{rec: models.SearchIndex{ID: "p", Type: models.TypePublication}, want: "/resources/publications#p"},
		{rec: models.SearchIndex{ID: "d", Type: models.TypeDataset}, want: "/resources#d"},
		{rec: models.SearchIndex{ID: "s", Type: models.TypeSoftware}, want: "/resources#s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, search.ResultURL(tt.rec))
		})
	}
}

func TestHighlights(t *testing.T) {
	t.Run("context is bounded", func(t *testing.T) {
		text := strings.Repeat("x", 150) + " needle " + strings.Repeat("y", 150)
		got := search.Highlights(text, []string{"needle"})
		require.Len(t, got, 1)
		want := "..." + strings.Repeat("x", 99) + " <mark>needle</mark> " + strings.Repeat("y", 99) + "..."
		require.Equal(t, want, got[0])
	})

	t.Run("at most three", func(t *testing.T) {
		got := search.Highlights("ai ai ai ai ai", []string{"ai"})
		require.Len(t, got, 1, "the first snippet's context consumes the rest of the text")

		spaced := strings.Repeat("ai"+strings.Repeat(" ", 210), 5)
		got = search.Highlights(spaced, []string{"ai"})
		require.Len(t, got, 3)
	})

	t.Run("spans several terms", func(t *testing.T) {
		text := "graph" + strings.Repeat(" ", 250) + "learning"
		got := search.Highlights(text, []string{"graph", "learning", "missing"})
		require.Len(t, got, 2)
		require.True(t, strings.HasPrefix(got[0], "...<mark>graph</mark>"))
		require.True(t, strings.HasSuffix(got[1], "<mark>learning</mark>..."))
	})

	t.Run("metacharacters are literal", func(t *testing.T) {
		require.NotPanics(t, func() {
			got := search.Highlights("we teach c++ and (lisp).", []string{"c++", "(lisp", ".*"})
			require.Len(t, got, 2)
			require.Contains(t, got[0], "<mark>c++</mark>")
			require.Contains(t, got[1], "<mark>(lisp</mark>")
		})
	})

	t.Run("multibyte context", func(t *testing.T) {
		text := strings.Repeat("é", 120) + "x"
		got := search.Highlights(text, []string{"x"})
		require.Len(t, got, 1)
		require.True(t, utf8.ValidString(got[0]))
		require.Equal(t, "..."+strings.Repeat("é", 100)+"<mark>x</mark>...", got[0])
	})
}

func TestSearchMetacharacterQuery(t *testing.T) {
	require.NotPanics(t, func() {
		search.Search(combined(), models.SearchOptions{Query: "ai( [unclosed"})
	})
}

type fakeSource struct {
	failNews bool
}

func (fakeSource) LoadFacultyMembers(context.Context) models.ApiResponse[[]models.FacultyMember] {
	return models.OK([]models.FacultyMember{johnDoe()}, "")
}

func (fakeSource) LoadResearchProjects(context.Context) models.ApiResponse[[]models.ResearchProject] {
	return models.OK([]models.ResearchProject{healthProject()}, "")
}

func (f fakeSource) LoadNewsArticles(context.Context) models.ApiResponse[[]models.NewsArticle] {
	if f.failNews {
		return models.Fail[[]models.NewsArticle](errors.New("read news: file missing"))
	}
	return models.OK([]models.NewsArticle{{ID: "n1", Slug: "s", Title: "AI news"}}, "")
}

func (fakeSource) LoadEvents(context.Context) models.ApiResponse[[]models.Event] {
	return models.OK([]models.Event{}, "")
}

func (fakeSource) LoadPublications(context.Context) models.ApiResponse[[]models.PublicationResource] {
	return models.OK([]models.PublicationResource{}, "")
}

func (fakeSource) LoadDatasets(context.Context) models.ApiResponse[[]models.DatasetResource] {
	return models.OK([]models.DatasetResource{}, "")
}

func (fakeSource) LoadSoftwareTools(context.Context) models.ApiResponse[[]models.SoftwareTool] {
	return models.OK([]models.SoftwareTool{{ID: "s1", Name: "Tool"}}, "")
}

func TestCollect(t *testing.T) {
	index, err := search.Collect(context.Background(), fakeSource{})
	require.NoError(t, err)
	require.Len(t, index, 4)

	index, err = search.Collect(context.Background(), fakeSource{failNews: true})
	require.ErrorContains(t, err, "load news: read news: file missing")
	require.Len(t, index, 3)
}

func resultIDs(resp models.SearchResponse) []string {
	out := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.ID)
	}
	return out
}
