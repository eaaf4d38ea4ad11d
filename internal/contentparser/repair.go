package contentparser

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/processing"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

type enumField struct {
	key      string
	allowed  []string
	fallback string
}

// entry lists what Repair may fill in for each object of a nested list.
type entry struct {
	strings   map[string]string
	positives []string
	lists     []string
}

// shape lists what Repair may fill in for one content kind.
type shape struct {
	strings   map[string]string
	emails    []string
	enums     []enumField
	dates     []string
	optDates  []string
	lists     map[string][]any
	entries   map[string]entry
	positives []string
	derive    func(r *Repairer, rec map[string]any)
}

var shapes = map[models.Kind]shape{
	models.KindFaculty: {
		strings: map[string]string{
			"name": "Unnamed faculty member", "title": "Faculty",
			"department": "Department", "email": "unknown@department.invalid",
			"bio": "Biography coming soon.",
		},
		emails: []string{"email"},
		enums:  []enumField{{"status", models.FacultyStatuses, "active"}},
		lists:  map[string][]any{"researchAreas": {}, "education": {}, "publications": {}},
		entries: map[string]entry{
			"education": {
				strings:   map[string]string{"degree": "Degree", "institution": "Institution", "field": "Field"},
				positives: []string{"year"},
			},
			"publications": {
				strings:   map[string]string{"title": "Untitled publication", "journal": "Unpublished"},
				positives: []string{"year"},
				lists:     []string{"authors"},
			},
		},
	},
	models.KindResearch: {
		strings: map[string]string{
			"title": "Untitled project", "description": "Description coming soon.",
			"principalInvestigator": "TBA",
		},
		enums:    []enumField{{"status", models.ResearchStatuses, "planned"}},
		dates:    []string{"startDate"},
		optDates: []string{"endDate"},
		lists:    map[string][]any{"collaborators": {}, "tags": {}},
	},
	models.KindNews: {
		strings: map[string]string{
			"title": "Untitled", "content": "Details coming soon.", "author": "Department",
		},
		enums:  []enumField{{"category", models.NewsCategories, "general"}},
		dates:  []string{"publishedAt"},
		lists:  map[string][]any{"tags": {}},
		derive: deriveNews,
	},
	models.KindEvents: {
		strings: map[string]string{
			"title": "Untitled event", "description": "Details coming soon.", "location": "TBA",
		},
		enums:    []enumField{{"type", models.EventTypes, "seminar"}},
		dates:    []string{"date"},
		optDates: []string{"endDate"},
		lists:    map[string][]any{"tags": {}},
	},
	models.KindPrograms: {
		strings: map[string]string{
			"name": "Unnamed program", "description": "Description coming soon.", "duration": "TBA",
		},
		enums:     []enumField{{"degree", models.ProgramDegrees, "certificate"}},
		lists:     map[string][]any{"requirements": {}, "tags": {}},
		positives: []string{"credits"},
	},
	models.KindPublications: {
		strings:   map[string]string{"title": "Untitled publication", "venue": "Unpublished"},
		enums:     []enumField{{"type", models.PublicationTypes, "preprint"}},
		lists:     map[string][]any{"authors": {"Unknown"}, "tags": {}},
		positives: []string{"year"},
	},
	models.KindDatasets: {
		strings: map[string]string{
			"name": "Unnamed dataset", "description": "Description coming soon.", "format": "unknown",
		},
		enums:    []enumField{{"accessLevel", models.AccessLevels, "restricted"}},
		optDates: []string{"updatedAt"},
		lists:    map[string][]any{"tags": {}},
	},
	models.KindSoftware: {
		strings: map[string]string{
			"name": "Unnamed tool", "description": "Description coming soon.", "language": "unknown",
		},
		lists: map[string][]any{"tags": {}},
	},
}

// Repairer fills the gaps of a draft record so it passes strict validation.
// NewID receives the draft as submitted and returns the id to assign when it
// has none.
type Repairer struct {
	Now   func() time.Time
	NewID func(kind models.Kind, draft map[string]any) string
}

// NewRepairer returns a Repairer using the wall clock and random UUIDs.
func NewRepairer() *Repairer {
	return &Repairer{Now: time.Now, NewID: randomID}
}

func randomID(models.Kind, map[string]any) string {
	return uuid.NewString()
}

// Repair uses a default Repairer.
func Repair(kind models.Kind, raw map[string]any) (map[string]any, error) {
	return NewRepairer().Repair(kind, raw)
}

// Repair returns a copy of raw with missing required fields defaulted,
// invalid enum values replaced by a safe default, a generated id when none is
// set and missing dates set to now. Fields it does not know pass through.
// An end date that does not parse or precedes the start is dropped. Nested
// education and publication entries are filled the same way, malformed
// emails are replaced and list items of the wrong type are dropped.
func (r *Repairer) Repair(kind models.Kind, raw map[string]any) (map[string]any, error) {
	sh, ok := shapes[kind]
	if !ok {
		return nil, fmt.Errorf("repair: unknown content kind %q", kind)
	}
	rec := maps.Clone(raw)
	if rec == nil {
		rec = map[string]any{}
	}
	now := r.Now().UTC()

	if blank(rec["id"]) {
		rec["id"] = r.NewID(kind, raw)
	}
	if sh.derive != nil {
		sh.derive(r, rec)
	}
	fillStrings(rec, sh.strings)
	for _, key := range sh.emails {
		if v, _ := rec[key].(string); !validation.ValidEmail(strings.TrimSpace(v)) {
			rec[key] = sh.strings[key]
		}
	}
	for _, e := range sh.enums {
		v, _ := rec[e.key].(string)
		v = strings.ToLower(strings.TrimSpace(v))
		if !slices.Contains(e.allowed, v) {
			v = e.fallback
		}
		rec[e.key] = v
	}

	var start time.Time
	for _, key := range sh.dates {
		ts, ok := dateValue(rec[key])
		if !ok {
			ts = now
			rec[key] = now.Format(time.RFC3339)
		}
		if start.IsZero() {
			start = ts
		}
	}
	for _, key := range sh.optDates {
		v, present := rec[key]
		if !present || v == nil {
			continue
		}
		ts, ok := dateValue(v)
		if !ok || (!start.IsZero() && ts.Before(start)) {
			delete(rec, key)
		}
	}

	for key, def := range sh.lists {
		items, ok := rec[key].([]any)
		if !ok {
			rec[key] = slices.Clone(def)
			continue
		}
		if e, nested := sh.entries[key]; nested {
			rec[key] = repairEntries(items, e, now)
		} else {
			rec[key] = onlyStrings(items)
		}
	}
	if kind == models.KindPublications && !hasString(rec["authors"]) {
		rec["authors"] = []any{"Unknown"}
	}

	fillPositives(rec, sh.positives, now)
	return rec, nil
}

// repairEntries drops list items that are not objects and fills the rest.
func repairEntries(items []any, e entry, now time.Time) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		obj = maps.Clone(obj)
		fillStrings(obj, e.strings)
		for _, key := range e.lists {
			if list, ok := obj[key].([]any); ok {
				obj[key] = onlyStrings(list)
			} else {
				obj[key] = []any{}
			}
		}
		fillPositives(obj, e.positives, now)
		out = append(out, obj)
	}
	return out
}

func fillStrings(rec map[string]any, defaults map[string]string) {
	for key, def := range defaults {
		if blank(rec[key]) {
			rec[key] = def
		}
	}
}

// fillPositives sets non-positive counts to 1 and years to the current year.
func fillPositives(rec map[string]any, keys []string, now time.Time) {
	for _, key := range keys {
		if positiveInt(rec[key]) {
			continue
		}
		if key == "year" {
			rec[key] = now.Year()
		} else {
			rec[key] = 1
		}
	}
}

func onlyStrings(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if _, ok := item.(string); ok {
			out = append(out, item)
		}
	}
	return out
}

func deriveNews(_ *Repairer, rec map[string]any) {
	if blank(rec["slug"]) {
		title, _ := rec["title"].(string)
		id, _ := rec["id"].(string)
		slug := processing.Slugify(title)
		if slug == "" {
			slug = processing.Slugify(id)
		}
		if slug == "" {
			slug = "post"
		}
		rec["slug"] = slug
	}
	if blank(rec["excerpt"]) {
		if content, ok := rec["content"].(string); ok && !blank(content) {
			rec["excerpt"] = processing.GenerateExcerpt(plainText(content), excerptWords)
		} else {
			rec["excerpt"] = "Details coming soon."
		}
	}
}

func dateValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		ts, err := validation.ParseDate(t)
		return ts, err == nil
	}
	return time.Time{}, false
}

func positiveInt(v any) bool {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return false
	}
	return f > 0 && f == math.Trunc(f)
}

func hasString(v any) bool {
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if !blank(item) {
			return true
		}
	}
	return false
}
