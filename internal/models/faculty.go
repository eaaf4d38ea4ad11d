package models

// FacultyMember is an entry of the faculty directory.
type FacultyMember struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Title         string               `json:"title"`
	Department    string               `json:"department"`
	Email         string               `json:"email" jsonschema:"format=email"`
	Phone         string               `json:"phone,omitempty"`
	Office        string               `json:"office,omitempty"`
	Bio           string               `json:"bio"`
	ResearchAreas []string             `json:"researchAreas"`
	Education     []Education          `json:"education"`
	Publications  []FacultyPublication `json:"publications"`
	ImageURL      string               `json:"imageUrl,omitempty"`
	Website       string               `json:"website,omitempty"`
	Status        string               `json:"status" jsonschema:"enum=active,enum=emeritus,enum=visiting,enum=adjunct"`
}

// Education is one degree held by a faculty member.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Field       string `json:"field"`
	Year        int    `json:"year" jsonschema:"minimum=1"`
}

// FacultyPublication is a publication listed on a faculty profile.
type FacultyPublication struct {
	Title   string   `json:"title"`
	Journal string   `json:"journal"`
	Year    int      `json:"year" jsonschema:"minimum=1"`
	Authors []string `json:"authors,omitempty"`
	DOI     string   `json:"doi,omitempty"`
}

// Faculty statuses.
var FacultyStatuses = []string{"active", "emeritus", "visiting", "adjunct"}
