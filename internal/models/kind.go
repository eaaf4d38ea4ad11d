package models

// ContentType identifies an indexed content collection.
type ContentType string

const (
	TypeFaculty     ContentType = "faculty"
	TypeResearch    ContentType = "research"
	TypeNews        ContentType = "news"
	TypeEvent       ContentType = "event"
	TypePublication ContentType = "publication"
	TypeDataset     ContentType = "dataset"
	TypeSoftware    ContentType = "software"
)

// ContentTypes lists every indexed type.
var ContentTypes = []ContentType{
	TypeFaculty, TypeResearch, TypeNews, TypeEvent, TypePublication, TypeDataset, TypeSoftware,
}

// Kind names a content collection on disk. It differs from ContentType
// because programs are loaded but never indexed.
type Kind string

const (
	KindFaculty      Kind = "faculty"
	KindResearch     Kind = "research"
	KindNews         Kind = "news"
	KindEvents       Kind = "events"
	KindPrograms     Kind = "programs"
	KindPublications Kind = "publications"
	KindDatasets     Kind = "datasets"
	KindSoftware     Kind = "software"
)

// Kinds lists every content collection.
var Kinds = []Kind{
	KindFaculty, KindResearch, KindNews, KindEvents, KindPrograms,
	KindPublications, KindDatasets, KindSoftware,
}

// ParseKind accepts a collection name, case-sensitive.
func ParseKind(raw string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// ParseContentType accepts an indexed type name.
func ParseContentType(raw string) (ContentType, bool) {
	for _, t := range ContentTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}
