// Package schema exports JSON Schemas of the content records so authors can
// check files in their editor before the loader sees them.
package schema

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

var records = map[models.Kind]struct {
	value       any
	description string
}{
	models.KindFaculty:      {models.FacultyMember{}, "A faculty directory entry."},
	models.KindResearch:     {models.ResearchProject{}, "A research project."},
	models.KindNews:         {models.NewsArticle{}, "A news article."},
	models.KindEvents:       {models.Event{}, "A department event."},
	models.KindPrograms:     {models.AcademicProgram{}, "An academic program."},
	models.KindPublications: {models.PublicationResource{}, "A publication resource."},
	models.KindDatasets:     {models.DatasetResource{}, "A dataset resource."},
	models.KindSoftware:     {models.SoftwareTool{}, "A software tool."},
}

// Kinds lists the collections a schema can be produced for.
func Kinds() []models.Kind {
	return slices.Clone(models.Kinds)
}

// For reflects the schema of one record of kind. Properties are inlined and
// unknown properties are allowed, matching what the validators accept.
func For(kind models.Kind) (*jsonschema.Schema, error) {
	rec, ok := records[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for content kind %q", kind)
	}
	r := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(rec.value)
	s.Title = string(kind)
	s.Description = rec.description
	return s, nil
}

// Collection wraps the record schema of kind into the array a collection file holds.
func Collection(kind models.Kind) (*jsonschema.Schema, error) {
	item, err := For(kind)
	if err != nil {
		return nil, err
	}
	version := item.Version
	item.Version = ""
	return &jsonschema.Schema{
		Version:     version,
		Title:       string(kind) + " collection",
		Type:        "array",
		Items:       item,
		Description: "Every record of the " + string(kind) + " collection file.",
	}, nil
}

// JSON renders the collection schema of kind, indented.
func JSON(kind models.Kind) ([]byte, error) {
	s, err := Collection(kind)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return out, nil
}
