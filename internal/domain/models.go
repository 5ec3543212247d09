package domain

import (
	"encoding/json"
	"time"
)

// Domain contains core models and interfaces.

// Article is a single headline. Title is the only field the renderers rely on;
// Raw keeps the original JSON object so unknown fields pass through untouched.
type Article struct {
	ID          string
	Title       string
	URL         string
	Description string
	ImageURL    string
	Author      string
	SourceName  string
	PublishedAt time.Time
	Raw         json.RawMessage
}
