package validation

import (
	"fmt"

	"github.com/DeafMist/dept-site/backend/internal/models"
)

type rule[T any] func(c *checker, raw any, path string) T

func one[T any](raw any, fn rule[T]) (T, error) {
	c := newChecker()
	v := fn(c, raw, "")
	if err := c.err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// many validates every element and stops at the first invalid one.
func many[T any](raw any, fn rule[T]) ([]T, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{
			RootPath: fmt.Sprintf("expected array, got %s", typeName(raw)),
		}}
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		c := newChecker()
		v := fn(c, item, index("", i))
		if err := c.err(); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func ValidateFacultyMember(raw any) (models.FacultyMember, error) { return one(raw, faculty) }
func ValidateFacultyMembers(raw any) ([]models.FacultyMember, error) {
	return many(raw, faculty)
}

func ValidateResearchProject(raw any) (models.ResearchProject, error) { return one(raw, research) }
func ValidateResearchProjects(raw any) ([]models.ResearchProject, error) {
	return many(raw, research)
}

func ValidateNewsArticle(raw any) (models.NewsArticle, error)    { return one(raw, news) }
func ValidateNewsArticles(raw any) ([]models.NewsArticle, error) { return many(raw, news) }

func ValidateEvent(raw any) (models.Event, error)    { return one(raw, event) }
func ValidateEvents(raw any) ([]models.Event, error) { return many(raw, event) }

func ValidateProgram(raw any) (models.AcademicProgram, error)    { return one(raw, program) }
func ValidatePrograms(raw any) ([]models.AcademicProgram, error) { return many(raw, program) }

func ValidatePublication(raw any) (models.PublicationResource, error) { return one(raw, publication) }
func ValidatePublications(raw any) ([]models.PublicationResource, error) {
	return many(raw, publication)
}

func ValidateDataset(raw any) (models.DatasetResource, error)    { return one(raw, dataset) }
func ValidateDatasets(raw any) ([]models.DatasetResource, error) { return many(raw, dataset) }

func ValidateSoftwareTool(raw any) (models.SoftwareTool, error) { return one(raw, software) }
func ValidateSoftwareTools(raw any) ([]models.SoftwareTool, error) {
	return many(raw, software)
}

// ValidateRecord validates a single record of the given collection and
// returns the typed value.
func ValidateRecord(kind models.Kind, raw any) (any, error) {
	switch kind {
	case models.KindFaculty:
		return ValidateFacultyMember(raw)
	case models.KindResearch:
		return ValidateResearchProject(raw)
	case models.KindNews:
		return ValidateNewsArticle(raw)
	case models.KindEvents:
		return ValidateEvent(raw)
	case models.KindPrograms:
		return ValidateProgram(raw)
	case models.KindPublications:
		return ValidatePublication(raw)
	case models.KindDatasets:
		return ValidateDataset(raw)
	case models.KindSoftware:
		return ValidateSoftwareTool(raw)
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
}

func faculty(c *checker, raw any, p string) models.FacultyMember {
	obj := c.object(raw, p)
	if obj == nil {
		return models.FacultyMember{}
	}
	m := models.FacultyMember{
		ID:            c.requiredString(obj, p, "id"),
		Name:          c.requiredString(obj, p, "name"),
		Title:         c.requiredString(obj, p, "title"),
		Department:    c.requiredString(obj, p, "department"),
		Email:         c.email(obj, p, "email"),
		Phone:         c.optionalString(obj, p, "phone"),
		Office:        c.optionalString(obj, p, "office"),
		Bio:           c.requiredString(obj, p, "bio"),
		ResearchAreas: c.stringList(obj, p, "researchAreas", false),
		ImageURL:      c.optionalString(obj, p, "imageUrl"),
		Website:       c.optionalString(obj, p, "website"),
		Status:        c.enum(obj, p, "status", models.FacultyStatuses, "active"),
		Education:     []models.Education{},
		Publications:  []models.FacultyPublication{},
	}
	for i, item := range c.array(obj, p, "education") {
		ip := index(field(p, "education"), i)
		e := c.object(item, ip)
		if e == nil {
			continue
		}
		m.Education = append(m.Education, models.Education{
			Degree:      c.requiredString(e, ip, "degree"),
			Institution: c.requiredString(e, ip, "institution"),
			Field:       c.requiredString(e, ip, "field"),
			Year:        c.positiveInt(e, ip, "year"),
		})
	}
	for i, item := range c.array(obj, p, "publications") {
		ip := index(field(p, "publications"), i)
		pub := c.object(item, ip)
		if pub == nil {
			continue
		}
		m.Publications = append(m.Publications, models.FacultyPublication{
			Title:   c.requiredString(pub, ip, "title"),
			Journal: c.requiredString(pub, ip, "journal"),
			Year:    c.positiveInt(pub, ip, "year"),
			Authors: c.stringList(pub, ip, "authors", false),
			DOI:     c.optionalString(pub, ip, "doi"),
		})
	}
	return m
}

func research(c *checker, raw any, p string) models.ResearchProject {
	obj := c.object(raw, p)
	if obj == nil {
		return models.ResearchProject{}
	}
	r := models.ResearchProject{
		ID:                    c.requiredString(obj, p, "id"),
		Title:                 c.requiredString(obj, p, "title"),
		Description:           c.requiredString(obj, p, "description"),
		PrincipalInvestigator: c.requiredString(obj, p, "principalInvestigator"),
		Collaborators:         c.stringList(obj, p, "collaborators", false),
		Status:                c.enum(obj, p, "status", models.ResearchStatuses, ""),
		StartDate:             c.date(obj, p, "startDate"),
		EndDate:               c.optionalDate(obj, p, "endDate"),
		FundingSource:         c.optionalString(obj, p, "fundingSource"),
		FundingAmount:         c.nonNegative(obj, p, "fundingAmount"),
		Tags:                  c.stringList(obj, p, "tags", false),
		ImageURL:              c.optionalString(obj, p, "imageUrl"),
	}
	if r.EndDate != nil && !r.StartDate.IsZero() && r.EndDate.Before(r.StartDate) {
		c.fail(field(p, "endDate"), "must not be before startDate")
	}
	return r
}

func news(c *checker, raw any, p string) models.NewsArticle {
	obj := c.object(raw, p)
	if obj == nil {
		return models.NewsArticle{}
	}
	return models.NewsArticle{
		ID:          c.requiredString(obj, p, "id"),
		Slug:        c.requiredString(obj, p, "slug"),
		Title:       c.requiredString(obj, p, "title"),
		Excerpt:     c.requiredString(obj, p, "excerpt"),
		Content:     c.requiredString(obj, p, "content"),
		Author:      c.requiredString(obj, p, "author"),
		PublishedAt: c.date(obj, p, "publishedAt"),
		Category:    c.enum(obj, p, "category", models.NewsCategories, ""),
		Tags:        c.stringList(obj, p, "tags", false),
		ImageURL:    c.optionalString(obj, p, "imageUrl"),
		Featured:    c.boolean(obj, p, "featured"),
	}
}

func event(c *checker, raw any, p string) models.Event {
	obj := c.object(raw, p)
	if obj == nil {
		return models.Event{}
	}
	e := models.Event{
		ID:              c.requiredString(obj, p, "id"),
		Title:           c.requiredString(obj, p, "title"),
		Description:     c.requiredString(obj, p, "description"),
		Date:            c.date(obj, p, "date"),
		EndDate:         c.optionalDate(obj, p, "endDate"),
		Location:        c.requiredString(obj, p, "location"),
		Type:            c.enum(obj, p, "type", models.EventTypes, ""),
		Speaker:         c.optionalString(obj, p, "speaker"),
		RegistrationURL: c.optionalString(obj, p, "registrationUrl"),
		Tags:            c.stringList(obj, p, "tags", false),
	}
	if e.EndDate != nil && !e.Date.IsZero() && e.EndDate.Before(e.Date) {
		c.fail(field(p, "endDate"), "must not be before date")
	}
	return e
}

func program(c *checker, raw any, p string) models.AcademicProgram {
	obj := c.object(raw, p)
	if obj == nil {
		return models.AcademicProgram{}
	}
	return models.AcademicProgram{
		ID:           c.requiredString(obj, p, "id"),
		Name:         c.requiredString(obj, p, "name"),
		Degree:       c.enum(obj, p, "degree", models.ProgramDegrees, ""),
		Description:  c.requiredString(obj, p, "description"),
		Duration:     c.requiredString(obj, p, "duration"),
		Credits:      c.positiveInt(obj, p, "credits"),
		Requirements: c.stringList(obj, p, "requirements", false),
		Tags:         c.stringList(obj, p, "tags", false),
	}
}

func publication(c *checker, raw any, p string) models.PublicationResource {
	obj := c.object(raw, p)
	if obj == nil {
		return models.PublicationResource{}
	}
	return models.PublicationResource{
		ID:       c.requiredString(obj, p, "id"),
		Title:    c.requiredString(obj, p, "title"),
		Authors:  c.stringList(obj, p, "authors", true),
		Venue:    c.requiredString(obj, p, "venue"),
		Year:     c.positiveInt(obj, p, "year"),
		Abstract: c.optionalString(obj, p, "abstract"),
		DOI:      c.optionalString(obj, p, "doi"),
		URL:      c.optionalString(obj, p, "url"),
		Type:     c.enum(obj, p, "type", models.PublicationTypes, ""),
		Tags:     c.stringList(obj, p, "tags", false),
	}
}

func dataset(c *checker, raw any, p string) models.DatasetResource {
	obj := c.object(raw, p)
	if obj == nil {
		return models.DatasetResource{}
	}
	return models.DatasetResource{
		ID:          c.requiredString(obj, p, "id"),
		Name:        c.requiredString(obj, p, "name"),
		Description: c.requiredString(obj, p, "description"),
		Format:      c.requiredString(obj, p, "format"),
		Size:        c.optionalString(obj, p, "size"),
		License:     c.optionalString(obj, p, "license"),
		AccessLevel: c.enum(obj, p, "accessLevel", models.AccessLevels, ""),
		URL:         c.optionalString(obj, p, "url"),
		Tags:        c.stringList(obj, p, "tags", false),
		UpdatedAt:   c.optionalDate(obj, p, "updatedAt"),
	}
}

func software(c *checker, raw any, p string) models.SoftwareTool {
	obj := c.object(raw, p)
	if obj == nil {
		return models.SoftwareTool{}
	}
	return models.SoftwareTool{
		ID:               c.requiredString(obj, p, "id"),
		Name:             c.requiredString(obj, p, "name"),
		Description:      c.requiredString(obj, p, "description"),
		Language:         c.requiredString(obj, p, "language"),
		License:          c.optionalString(obj, p, "license"),
		RepositoryURL:    c.optionalString(obj, p, "repositoryUrl"),
		DocumentationURL: c.optionalString(obj, p, "documentationUrl"),
		Version:          c.optionalString(obj, p, "version"),
		Tags:             c.stringList(obj, p, "tags", false),
	}
}
