package domain

import "time"

// Document is a record fetched from an upstream source. Content holds the raw
// payload; ExtractedText is filled in by a processor before narration.
type Document struct {
	ID            string
	Source        string
	Title         string
	Content       []byte
	MimeType      string
	URL           string
	Timestamp     time.Time
	Metadata      map[string]string
	ExtractedText string
}
