package models

import "time"

// Metadata is the display-only payload attached to index records and results.
// Each content type has exactly one implementation.
type Metadata interface {
	ContentType() ContentType
}

type FacultyMetadata struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	Email      string `json:"email"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

type ResearchMetadata struct {
	Status                string     `json:"status"`
	PrincipalInvestigator string     `json:"principalInvestigator"`
	StartDate             time.Time  `json:"startDate"`
	EndDate               *time.Time `json:"endDate,omitempty"`
	FundingSource         string     `json:"fundingSource,omitempty"`
}

type NewsMetadata struct {
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category"`
}

type EventMetadata struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Type     string    `json:"eventType"`
	Speaker  string    `json:"speaker,omitempty"`
}

type PublicationMetadata struct {
	Authors []string `json:"authors"`
	Venue   string   `json:"venue"`
	Year    int      `json:"year"`
	DOI     string   `json:"doi,omitempty"`
	URL     string   `json:"url,omitempty"`
}

type DatasetMetadata struct {
	Format      string `json:"format"`
	AccessLevel string `json:"accessLevel"`
	Size        string `json:"size,omitempty"`
	URL         string `json:"url,omitempty"`
}

type SoftwareMetadata struct {
	Language      string `json:"language"`
	License       string `json:"license,omitempty"`
	RepositoryURL string `json:"repositoryUrl,omitempty"`
	Version       string `json:"version,omitempty"`
}

func (FacultyMetadata) ContentType() ContentType     { return TypeFaculty }
func (ResearchMetadata) ContentType() ContentType    { return TypeResearch }
func (NewsMetadata) ContentType() ContentType        { return TypeNews }
func (EventMetadata) ContentType() ContentType       { return TypeEvent }
func (PublicationMetadata) ContentType() ContentType { return TypePublication }
func (DatasetMetadata) ContentType() ContentType     { return TypeDataset }
func (SoftwareMetadata) ContentType() ContentType    { return TypeSoftware }
