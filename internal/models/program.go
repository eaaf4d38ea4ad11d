package models

// AcademicProgram is a degree or certificate offered by the department.
type AcademicProgram struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Degree       string   `json:"degree" jsonschema:"enum=bachelor,enum=master,enum=phd,enum=certificate"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Credits      int      `json:"credits" jsonschema:"minimum=1"`
	Requirements []string `json:"requirements"`
	Tags         []string `json:"tags"`
}

// Program degrees.
var ProgramDegrees = []string{"bachelor", "master", "phd", "certificate"}
