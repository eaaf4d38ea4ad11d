package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

// Direction orders a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection defaults to ascending for anything but "desc".
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), string(Desc)) {
		return Desc
	}
	return Asc
}

// Compare orders two values like cmp.Compare.
type Compare[T any] func(a, b T) int

// Sort pairs a comparator with a direction.
type Sort[T any] struct {
	Compare   Compare[T]
	Direction Direction
}

// SortData returns a stably sorted copy of data. Equal elements keep their
// relative order in both directions.
func SortData[T any](data []T, s Sort[T]) []T {
	out := slices.Clone(data)
	if s.Compare == nil {
		return out
	}
	compare := s.Compare
	if s.Direction == Desc {
		compare = func(a, b T) int { return s.Compare(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// ByString compares a string field with English collation rules. The
// returned comparator is not safe for concurrent use.
func ByString[T any](get func(T) string) Compare[T] {
	c := collate.New(language.English, collate.IgnoreCase)
	return func(a, b T) int {
		return c.CompareString(get(a), get(b))
	}
}

// ByNumber compares a numeric field.
func ByNumber[T any, N cmp.Ordered](get func(T) N) Compare[T] {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

// ByTime compares a time field, earlier first.
func ByTime[T any](get func(T) time.Time) Compare[T] {
	return func(a, b T) int {
		return get(a).Compare(get(b))
	}
}

// lookup resolves a named sort field from a per-type table.
func lookup[T any](fields map[string]func() Compare[T], opts models.SortOptions) (Sort[T], bool) {
	mk, ok := fields[opts.Field]
	if !ok {
		return Sort[T]{}, false
	}
	return Sort[T]{Compare: mk(), Direction: ParseDirection(opts.Direction)}, true
}

var facultyFields = map[string]func() Compare[models.FacultyMember]{
	"name":       func() Compare[models.FacultyMember] { return ByString(func(m models.FacultyMember) string { return m.Name }) },
	"title":      func() Compare[models.FacultyMember] { return ByString(func(m models.FacultyMember) string { return m.Title }) },
	"department": func() Compare[models.FacultyMember] { return ByString(func(m models.FacultyMember) string { return m.Department }) },
}

var researchFields = map[string]func() Compare[models.ResearchProject]{
	"title":         func() Compare[models.ResearchProject] { return ByString(func(p models.ResearchProject) string { return p.Title }) },
	"status":        func() Compare[models.ResearchProject] { return ByString(func(p models.ResearchProject) string { return p.Status }) },
	"startDate":     func() Compare[models.ResearchProject] { return ByTime(func(p models.ResearchProject) time.Time { return p.StartDate }) },
	"fundingAmount": func() Compare[models.ResearchProject] { return ByNumber(func(p models.ResearchProject) float64 { return p.FundingAmount }) },
}

var newsFields = map[string]func() Compare[models.NewsArticle]{
	"title":       func() Compare[models.NewsArticle] { return ByString(func(a models.NewsArticle) string { return a.Title }) },
	"author":      func() Compare[models.NewsArticle] { return ByString(func(a models.NewsArticle) string { return a.Author }) },
	"publishedAt": func() Compare[models.NewsArticle] { return ByTime(func(a models.NewsArticle) time.Time { return a.PublishedAt }) },
}

var eventFields = map[string]func() Compare[models.Event]{
	"title":    func() Compare[models.Event] { return ByString(func(e models.Event) string { return e.Title }) },
	"location": func() Compare[models.Event] { return ByString(func(e models.Event) string { return e.Location }) },
	"date":     func() Compare[models.Event] { return ByTime(func(e models.Event) time.Time { return e.Date }) },
}

// FacultySort resolves a faculty sort field (name, title, department).
func FacultySort(opts models.SortOptions) (Sort[models.FacultyMember], bool) {
	return lookup(facultyFields, opts)
}

// ResearchSort resolves a project sort field (title, status, startDate, fundingAmount).
func ResearchSort(opts models.SortOptions) (Sort[models.ResearchProject], bool) {
	return lookup(researchFields, opts)
}

// NewsSort resolves an article sort field (title, author, publishedAt).
func NewsSort(opts models.SortOptions) (Sort[models.NewsArticle], bool) {
	return lookup(newsFields, opts)
}

// EventSort resolves an event sort field (title, location, date).
func EventSort(opts models.SortOptions) (Sort[models.Event], bool) {
	return lookup(eventFields, opts)
}
