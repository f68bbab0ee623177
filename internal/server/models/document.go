// Package models holds the document server's persistence types.
package models

import "time"

// Document is one JSON object stored in a named collection.
type Document struct {
	ID         string         `db:"id"`
	Collection string         `db:"collection"`
	Data       map[string]any `db:"data"`
	CreatedAt  time.Time      `db:"created_at"`
}
