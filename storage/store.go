// Package storage persists the bot's named JSON documents. Every save
// replaces the whole document; there are no partial updates.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Document names used by the bot.
const (
	Tickets  = "tickets"
	Counting = "counting"
	Warnings = "warnings"
	Auth     = "auth"
	IDs      = "ids"
)

// ErrInvalidName is returned for document names that could escape the data
// directory or collide with temporary files.
var ErrInvalidName = errors.New("invalid document name")

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Store loads and saves whole JSON documents by name.
type Store interface {
	// Load decodes the named document into v. When the document does not
	// exist yet it returns false and leaves v untouched, so callers pass
	// their default in v.
	Load(ctx context.Context, name string, v any) (bool, error)
	// Save serializes v and overwrites the named document.
	Save(ctx context.Context, name string, v any) error
}

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
