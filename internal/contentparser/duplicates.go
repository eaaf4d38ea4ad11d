package contentparser

import (
	"fmt"
	"strconv"

	"github.com/DeafMist/dept-site/backend/internal/validation"
)

// FindDuplicateIDs returns every id carried by more than one record, in the
// order the second occurrence appears. Records without a string id are skipped.
func FindDuplicateIDs(records []any) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := recordID(rec); ok {
			ids = append(ids, id)
		}
	}
	return repeated(ids)
}

func repeated(ids []string) []string {
	seen := make(map[string]int, len(ids))
	var dups []string
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

// CheckUniqueIDs fails with a ValidationError naming each repeated id at the
// position of its later occurrences.
func CheckUniqueIDs(records []any) error {
	first := make(map[string]int)
	fields := make(map[string]string)
	for i, rec := range records {
		id, ok := recordID(rec)
		if !ok {
			continue
		}
		if j, dup := first[id]; dup {
			fields["["+strconv.Itoa(i)+"].id"] = fmt.Sprintf("duplicate id %q (first at [%d])", id, j)
			continue
		}
		first[id] = i
	}
	if len(fields) == 0 {
		return nil
	}
	return &validation.ValidationError{Fields: fields}
}

func recordID(rec any) (string, bool) {
	obj, ok := rec.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
