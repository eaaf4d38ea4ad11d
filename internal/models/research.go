package models

import "time"

// ResearchProject is a funded or ongoing research effort.
type ResearchProject struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	PrincipalInvestigator string     `json:"principalInvestigator"`
	Collaborators         []string   `json:"collaborators"`
	Status                string     `json:"status" jsonschema:"enum=active,enum=completed,enum=planned"`
	StartDate             time.Time  `json:"startDate"`
	EndDate               *time.Time `json:"endDate,omitempty"`
	FundingSource         string     `json:"fundingSource,omitempty"`
	FundingAmount         float64    `json:"fundingAmount,omitempty" jsonschema:"minimum=0"`
	Tags                  []string   `json:"tags"`
	ImageURL              string     `json:"imageUrl,omitempty"`
}

// Research project statuses.
var ResearchStatuses = []string{"active", "completed", "planned"}
