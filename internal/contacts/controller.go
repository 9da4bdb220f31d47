// Package contacts holds the contact list shown by the new chat picker: the
// fetched contacts, the search filter and pagination state.
//
// A Controller is not safe for concurrent use. It is driven from the UI
// goroutine; only the Fetch closures it hands out run elsewhere.
package contacts

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Fetch performs one page request against the Source. It touches no
// Controller state and may run on any goroutine.
type Fetch func() FetchResult

// FetchResult is the outcome of a Fetch, handed back to Controller.Complete
type FetchResult struct {
	Page Page
	Err  error
}

// Controller owns the contacts of one picker session
type Controller struct {
	source Source

	all      []Contact
	keyword  string
	visible  []Contact
	dirty    bool
	inFlight bool
	hasMore  bool
}

// NewController creates a controller reading from source
func NewController(source Source) *Controller {
	return &Controller{
		source:  source,
		hasMore: true,
	}
}

// RequestMoreContacts starts a page fetch. It returns nil when a fetch is
// already in flight or the source reported no further pages.
func (c *Controller) RequestMoreContacts(ctx context.Context) Fetch {
	if c.inFlight || !c.hasMore {
		return nil
	}
	c.inFlight = true

	source := c.source
	return func() FetchResult {
		page, err := source.FetchNextPage(ctx)
		return FetchResult{Page: page, Err: err}
	}
}

// Complete applies the result of a Fetch. A failed fetch leaves the contacts
// untouched and is returned wrapped in ErrFetchFailed.
func (c *Controller) Complete(res FetchResult) error {
	c.inFlight = false

	if res.Err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, res.Err)
	}

	c.all = append(c.all, res.Page.Contacts...)
	c.hasMore = res.Page.HasMore
	c.keyword = ""
	c.dirty = true
	return nil
}

// ApplyFilter sets the search keyword. An empty keyword shows every contact.
func (c *Controller) ApplyFilter(keyword string) {
	if keyword == c.keyword {
		return
	}
	c.keyword = keyword
	c.dirty = true
}

// OnScrolledNear is called by the renderer on every scroll update. It starts
// a fetch when no search is active and the end of the content, less the
// threshold, is within one viewport.
func (c *Controller) OnScrolledNear(ctx context.Context, pos ScrollPosition, threshold int) Fetch {
	if c.keyword != "" {
		return nil
	}

	distanceFromBottom := pos.ContentHeight - pos.Offset - threshold
	if distanceFromBottom >= pos.ViewportHeight {
		return nil
	}
	return c.RequestMoreContacts(ctx)
}

// NumberOfSections returns the number of row sections
func (c *Controller) NumberOfSections() int {
	return 2
}

// RowCount returns the number of rows in a section
func (c *Controller) RowCount(section Section) int {
	switch section {
	case SectionCreateGroup:
		return 1
	case SectionContacts:
		return len(c.visibleContacts())
	default:
		panic(fmt.Sprintf("contacts: invalid section %d", section))
	}
}

// RowAt returns the row at index within section. Out of range access panics.
func (c *Controller) RowAt(section Section, index int) Row {
	switch section {
	case SectionCreateGroup:
		if index != 0 {
			panic(fmt.Sprintf("contacts: row %d out of range in create group section", index))
		}
		return Row{Kind: RowCreateGroup}
	case SectionContacts:
		visible := c.visibleContacts()
		if index < 0 || index >= len(visible) {
			panic(fmt.Sprintf("contacts: row %d out of range [0,%d)", index, len(visible)))
		}
		return Row{Kind: RowContact, Contact: visible[index]}
	default:
		panic(fmt.Sprintf("contacts: invalid section %d", section))
	}
}

// Keyword returns the active search keyword
func (c *Controller) Keyword() string {
	return c.keyword
}

// InFlight reports whether a fetch is outstanding
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// HasMore reports whether the source may return further pages
func (c *Controller) HasMore() bool {
	return c.hasMore
}

// Len returns the number of fetched contacts, ignoring the filter
func (c *Controller) Len() int {
	return len(c.all)
}

// All returns a copy of every fetched contact in arrival order
func (c *Controller) All() []Contact {
	return append([]Contact(nil), c.all...)
}

// Visible returns a copy of the contacts matching the keyword
func (c *Controller) Visible() []Contact {
	return append([]Contact(nil), c.visibleContacts()...)
}

func (c *Controller) visibleContacts() []Contact {
	if !c.dirty && c.visible != nil {
		return c.visible
	}
	c.visible = filter(c.all, c.keyword)
	c.dirty = false
	return c.visible
}

// filter keeps contacts whose display name contains keyword, ignoring case
func filter(all []Contact, keyword string) []Contact {
	if keyword == "" {
		return append(make([]Contact, 0, len(all)), all...)
	}

	fold := cases.Fold()
	needle := fold.String(keyword)

	matched := make([]Contact, 0)
	for _, c := range all {
		if strings.Contains(fold.String(c.DisplayName()), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}
