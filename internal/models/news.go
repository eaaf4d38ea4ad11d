package models

import "time"

// NewsArticle is a department news post.
type NewsArticle struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category" jsonschema:"enum=research,enum=awards,enum=events,enum=announcements,enum=general"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Featured    bool      `json:"featured,omitempty"`
}

// Event is a seminar, defense or other dated happening.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Location        string     `json:"location"`
	Type            string     `json:"type" jsonschema:"enum=seminar,enum=workshop,enum=conference,enum=lecture,enum=social,enum=defense"`
	Speaker         string     `json:"speaker,omitempty"`
	RegistrationURL string     `json:"registrationUrl,omitempty"`
	Tags            []string   `json:"tags"`
}

// News categories.
var NewsCategories = []string{"research", "awards", "events", "announcements", "general"}

// Event types.
var EventTypes = []string{"seminar", "workshop", "conference", "lecture", "social", "defense"}
