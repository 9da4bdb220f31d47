package contacts

import (
	"context"
	"errors"
)

// ErrFetchFailed wraps any error reported by a Source
var ErrFetchFailed = errors.New("contact fetch failed")

// Contact represents one addressable person
type Contact struct {
	ID       string // friendUUID
	Name     string
	ImageURL string
}

// DisplayName returns the name shown for the contact
func (c Contact) DisplayName() string {
	if c.Name == "" {
		return c.ID
	}
	return c.Name
}

// Page is one batch of contacts returned by a Source
type Page struct {
	Contacts []Contact
	HasMore  bool
}

// Source fetches pages of contacts. Implementations track their own cursor:
// every call returns the page following the previous one.
type Source interface {
	FetchNextPage(ctx context.Context) (Page, error)
}

// SourceFunc adapts a function to a Source
type SourceFunc func(ctx context.Context) (Page, error)

// FetchNextPage calls f(ctx)
func (f SourceFunc) FetchNextPage(ctx context.Context) (Page, error) {
	return f(ctx)
}

// Section identifies a logical section of the row model
type Section int

const (
	SectionCreateGroup Section = iota
	SectionContacts
)

// RowKind identifies what a row represents
type RowKind int

const (
	RowCreateGroup RowKind = iota
	RowContact
)

// Row is a single entry of the row model
type Row struct {
	Kind    RowKind
	Contact Contact
}

// ScrollPosition describes the renderer's scroll state in its own units
type ScrollPosition struct {
	ContentHeight  int
	Offset         int
	ViewportHeight int
}
