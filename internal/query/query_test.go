package query_test

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/query"
)

func faculty() []models.FacultyMember {
	return []models.FacultyMember{
		{ID: "1", Name: "Dr. John Doe", Bio: "Machine learning", ResearchAreas: []string{"Machine Learning", "AI"}, Status: "active"},
		{ID: "2", Name: "Dr. Ana Ávila", Bio: "Robotics and control", ResearchAreas: []string{"Robotics"}, Status: "emeritus"},
		{ID: "3", Name: "Dr. Bo Chen", Bio: "Medical imaging with AI", ResearchAreas: []string{"Healthcare AI", "Imaging"}, Status: "active"},
		{ID: "4", Name: "dr. carla diaz", Bio: "Compilers", ResearchAreas: []string{"Programming Languages"}, Status: "visiting"},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func facultyID(m models.FacultyMember) string { return m.ID }

func TestFilterFaculty(t *testing.T) {
	tests := []struct {
		name    string
		filters models.SearchFilters
		want    []string
	}{
		{name: "no filters", filters: models.SearchFilters{}, want: []string{"1", "2", "3", "4"}},
		{name: "query matches bio", filters: models.SearchFilters{Query: "ROBOTICS"}, want: []string{"2"}},
		{name: "query matches research area", filters: models.SearchFilters{Query: "ai"}, want: []string{"1", "3"}},
		{name: "tag substring any", filters: models.SearchFilters{Tags: []string{"ai", "languages"}}, want: []string{"1", "3", "4"}},
		{name: "status exact", filters: models.SearchFilters{Status: "active"}, want: []string{"1", "3"}},
		{name: "and across dimensions", filters: models.SearchFilters{Query: "imaging", Tags: []string{"ai"}}, want: []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.FilterFaculty(faculty(), tt.filters)
			require.Equal(t, tt.want, ids(got, facultyID))
		})
	}
}

func TestFilterCompositionProperty(t *testing.T) {
	f := models.SearchFilters{Query: "a", Tags: []string{"ai", "robot"}}
	for _, m := range query.FilterFaculty(faculty(), f) {
		fields := append([]string{m.Name, m.Title, m.Bio, m.Department}, m.ResearchAreas...)
		require.NotEmpty(t, query.FilterFaculty([]models.FacultyMember{m}, models.SearchFilters{Query: f.Query}), fields)
		require.True(t, query.MatchesTags(m.ResearchAreas, f.Tags))
	}
}

func TestFilterResearchDateRange(t *testing.T) {
	projects := []models.ResearchProject{
		{ID: "a", Title: "Old", StartDate: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Status: "completed"},
		{ID: "b", Title: "Edge", StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), Status: "active"},
		{ID: "c", Title: "New", StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Status: "active"},
	}
	r := &models.DateRange{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	got := query.FilterResearch(projects, models.SearchFilters{DateRange: r})
	require.Equal(t, []string{"b", "c"}, ids(got, func(p models.ResearchProject) string { return p.ID }))

	got = query.FilterResearch(projects, models.SearchFilters{DateRange: &models.DateRange{End: r.Start}})
	require.Equal(t, []string{"a", "b"}, ids(got, func(p models.ResearchProject) string { return p.ID }))
}

func TestFilterNewsAndEvents(t *testing.T) {
	articles := []models.NewsArticle{
		{ID: "n1", Title: "Award", Category: "awards", Tags: []string{"Prize"}},
		{ID: "n2", Title: "Grant", Category: "research", Author: "Jane Award-Smith"},
	}
	got := query.FilterNews(articles, models.SearchFilters{Query: "award"})
	require.Len(t, got, 2)
	got = query.FilterNews(articles, models.SearchFilters{Query: "award", Category: "awards"})
	require.Len(t, got, 1)

	events := []models.Event{
		{ID: "e1", Title: "Talk", Type: "seminar", Location: "Hall A"},
		{ID: "e2", Title: "Defense", Type: "defense", Location: "Room 5"},
	}
	require.Len(t, query.FilterEvents(events, models.SearchFilters{Category: "defense"}), 1)
	require.Len(t, query.FilterEvents(events, models.SearchFilters{Query: "hall"}), 1)
}

func TestSortDataByName(t *testing.T) {
	s, ok := query.FacultySort(models.SortOptions{Field: "name", Direction: "asc"})
	require.True(t, ok)

	asc := query.SortData(faculty(), s)
	require.Equal(t, []string{"2", "3", "4", "1"}, ids(asc, facultyID))

	rng := rand.New(rand.NewSource(7))
	for range 10 {
		shuffled := faculty()
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		require.Equal(t, ids(asc, facultyID), ids(query.SortData(shuffled, s), facultyID))
	}

	s.Direction = query.Desc
	desc := query.SortData(faculty(), s)
	reversed := ids(asc, facultyID)
	slices.Reverse(reversed)
	require.Equal(t, reversed, ids(desc, facultyID))
}

func TestSortDataStable(t *testing.T) {
	items := []models.FacultyMember{
		{ID: "1", Department: "CS"}, {ID: "2", Department: "EE"}, {ID: "3", Department: "CS"},
	}
	s, ok := query.FacultySort(models.SortOptions{Field: "department"})
	require.True(t, ok)
	require.Equal(t, []string{"1", "3", "2"}, ids(query.SortData(items, s), facultyID))

	s.Direction = query.Desc
	require.Equal(t, []string{"2", "1", "3"}, ids(query.SortData(items, s), facultyID))
	require.Equal(t, "1", items[0].ID, "input must not be mutated")
}

func TestSortByNumberAndTime(t *testing.T) {
	projects := []models.ResearchProject{
		{ID: "a", FundingAmount: 500, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", FundingAmount: 100, StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", FundingAmount: 300, StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	id := func(p models.ResearchProject) string { return p.ID }

	s, ok := query.ResearchSort(models.SortOptions{Field: "fundingAmount", Direction: "desc"})
	require.True(t, ok)
	require.Equal(t, []string{"a", "c", "b"}, ids(query.SortData(projects, s), id))

	s, ok = query.ResearchSort(models.SortOptions{Field: "startDate"})
	require.True(t, ok)
	require.Equal(t, []string{"b", "c", "a"}, ids(query.SortData(projects, s), id))

	_, ok = query.ResearchSort(models.SortOptions{Field: "bogus"})
	require.False(t, ok)
}

func TestPaginate(t *testing.T) {
	data := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantItems []int
		wantPages int
		wantPage  int
		wantLimit int
	}{
		{name: "first page", page: 1, limit: 3, wantItems: []int{1, 2, 3}, wantPages: 3, wantPage: 1, wantLimit: 3},
		{name: "last partial page", page: 3, limit: 3, wantItems: []int{7}, wantPages: 3, wantPage: 3, wantLimit: 3},
		{name: "out of range", page: 4, limit: 3, wantItems: []int{}, wantPages: 3, wantPage: 4, wantLimit: 3},
		{name: "exact multiple", page: 1, limit: 7, wantItems: data, wantPages: 1, wantPage: 1, wantLimit: 7},
		{name: "defaults", page: 0, limit: 0, wantItems: data, wantPages: 1, wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.Paginate(data, tt.page, tt.limit)
			require.Equal(t, tt.wantItems, got.Items)
			require.Equal(t, models.Pagination{Page: tt.wantPage, Limit: tt.wantLimit, Total: 7, TotalPages: tt.wantPages}, got.Pagination)
		})
	}
}

func TestPaginateExactness(t *testing.T) {
	for n := 0; n <= 25; n++ {
		data := make([]int, n)
		for limit := 1; limit <= 6; limit++ {
			first := query.Paginate(data, 1, limit)
			pages := first.Pagination.TotalPages
			require.Equal(t, (n+limit-1)/limit, pages)

			seen := 0
			for p := 1; p <= pages; p++ {
				seen += len(query.Paginate(data, p, limit).Items)
			}
			require.Equal(t, n, seen)
			if n > 0 {
				last := query.Paginate(data, pages, limit).Items
				want := n % limit
				if want == 0 {
					want = limit
				}
				require.Len(t, last, want)
			}
			require.Empty(t, query.Paginate(data, pages+1, limit).Items)
		}
	}
}

func TestPaginateDataEnvelope(t *testing.T) {
	resp := query.PaginateData([]string{"a"}, 1, 10)
	require.True(t, resp.Success)
	require.Equal(t, []string{"a"}, resp.Data.Items)
}
