package models

import "time"

// PublicationResource is an entry of the publications library.
type PublicationResource struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Venue    string   `json:"venue"`
	Year     int      `json:"year" jsonschema:"minimum=1"`
	Abstract string   `json:"abstract,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	URL      string   `json:"url,omitempty"`
	Type     string   `json:"type" jsonschema:"enum=journal,enum=conference,enum=book,enum=preprint,enum=thesis"`
	Tags     []string `json:"tags"`
}

// DatasetResource is a published dataset.
type DatasetResource struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Format      string     `json:"format"`
	Size        string     `json:"size,omitempty"`
	License     string     `json:"license,omitempty"`
	AccessLevel string     `json:"accessLevel" jsonschema:"enum=public,enum=restricted,enum=private"`
	URL         string     `json:"url,omitempty"`
	Tags        []string   `json:"tags"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// SoftwareTool is research software maintained by the department.
type SoftwareTool struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Language         string   `json:"language"`
	License          string   `json:"license,omitempty"`
	RepositoryURL    string   `json:"repositoryUrl,omitempty"`
	DocumentationURL string   `json:"documentationUrl,omitempty"`
	Version          string   `json:"version,omitempty"`
	Tags             []string `json:"tags"`
}

var (
	PublicationTypes = []string{"journal", "conference", "book", "preprint", "thesis"}
	AccessLevels     = []string{"public", "restricted", "private"}
)
