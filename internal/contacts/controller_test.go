package contacts

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// pagedSource returns pages in order and counts calls
type pagedSource struct {
	pages []Page
	err   error
	calls int
}

func (s *pagedSource) FetchNextPage(ctx context.Context) (Page, error) {
	s.calls++
	if s.err != nil {
		return Page{}, s.err
	}
	if len(s.pages) == 0 {
		return Page{}, nil
	}
	p := s.pages[0]
	s.pages = s.pages[1:]
	return p, nil
}

func load(t *testing.T, c *Controller) {
	t.Helper()
	fetch := c.RequestMoreContacts(context.Background())
	if fetch == nil {
		t.Fatalf("expected a fetch to be started")
	}
	if err := c.Complete(fetch()); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
}

func names(cs []Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestFirstPagePopulatesRows(t *testing.T) {
	a := Contact{ID: "a", Name: "A"}
	b := Contact{ID: "b", Name: "B"}
	src := &pagedSource{pages: []Page{{Contacts: []Contact{a, b}, HasMore: true}}}
	c := NewController(src)

	load(t, c)

	if got := c.RowCount(SectionContacts); got != 2 {
		t.Fatalf("expected 2 contact rows, got %d", got)
	}
	row := c.RowAt(SectionContacts, 0)
	if row.Kind != RowContact || row.Contact != a {
		t.Fatalf("expected first row to be %+v, got %+v", a, row)
	}
	if !c.HasMore() {
		t.Fatalf("expected HasMore after page with HasMore=true")
	}
}

func TestFilterMatchesCaseInsensitiveSubstring(t *testing.T) {
	src := &pagedSource{pages: []Page{{Contacts: []Contact{
		{ID: "1", Name: "Anna"},
		{ID: "2", Name: "Bob"},
	}}}}
	c := NewController(src)
	load(t, c)

	c.ApplyFilter("an")

	if got := names(c.Visible()); !reflect.DeepEqual(got, []string{"Anna"}) {
		t.Fatalf("expected [Anna], got %v", got)
	}
}

func TestFilterPreservesOrderAndSubset(t *testing.T) {
	all := []Contact{
		{ID: "1", Name: "Zoë"},
		{ID: "2", Name: "zoe"},
		{ID: "3", Name: "Bob"},
		{ID: "4", Name: "ZOEY"},
		{ID: "5", Name: ""},
	}
	c := NewController(&pagedSource{pages: []Page{{Contacts: all}}})
	load(t, c)

	tests := []struct {
		keyword string
		want    []string
	}{
		{"", []string{"Zoë", "zoe", "Bob", "ZOEY", ""}},
		{"zoe", []string{"zoe", "ZOEY"}},
		{"ZOË", []string{"Zoë"}},
		{"b", []string{"Bob"}},
		{"5", []string{""}}, // falls back to the ID
		{"nobody", []string{}},
	}

	for _, tt := range tests {
		c.ApplyFilter(tt.keyword)
		got := names(c.Visible())
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("keyword %q: expected %v, got %v", tt.keyword, tt.want, got)
		}
		if c.RowCount(SectionContacts) != len(tt.want) {
			t.Errorf("keyword %q: row count %d does not match visible %d", tt.keyword, c.RowCount(SectionContacts), len(tt.want))
		}
	}
}

func TestCreateGroupSectionAlwaysHasOneRow(t *testing.T) {
	c := NewController(&pagedSource{})

	if got := c.RowCount(SectionCreateGroup); got != 1 {
		t.Fatalf("expected 1 row before any fetch, got %d", got)
	}
	if row := c.RowAt(SectionCreateGroup, 0); row.Kind != RowCreateGroup {
		t.Fatalf("expected create group row, got %+v", row)
	}

	c.RequestMoreContacts(context.Background())
	if got := c.RowCount(SectionCreateGroup); got != 1 {
		t.Fatalf("expected 1 row while fetching, got %d", got)
	}

	c.ApplyFilter("xyz")
	if got := c.RowCount(SectionCreateGroup); got != 1 {
		t.Fatalf("expected 1 row while filtered, got %d", got)
	}
}

func TestRequestMoreContactsWhileInFlightIsNoop(t *testing.T) {
	src := &pagedSource{pages: []Page{{Contacts: []Contact{{ID: "a"}}, HasMore: true}}}
	c := NewController(src)
	ctx := context.Background()

	first := c.RequestMoreContacts(ctx)
	second := c.RequestMoreContacts(ctx)
	if first == nil {
		t.Fatalf("expected first request to start a fetch")
	}
	if second != nil {
		t.Fatalf("expected second request to be a no-op while in flight")
	}

	if err := c.Complete(first()); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected exactly one source call, got %d", src.calls)
	}
	if c.InFlight() {
		t.Fatalf("expected no fetch in flight after completion")
	}
}

func TestSuccessfulFetchClearsKeyword(t *testing.T) {
	src := &pagedSource{pages: []Page{
		{Contacts: []Contact{{ID: "1", Name: "Anna"}}, HasMore: true},
		{Contacts: []Contact{{ID: "2", Name: "Bob"}}, HasMore: false},
	}}
	c := NewController(src)
	load(t, c)

	fetch := c.RequestMoreContacts(context.Background())
	c.ApplyFilter("ann")
	if err := c.Complete(fetch()); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if c.Keyword() != "" {
		t.Fatalf("expected keyword to be cleared, got %q", c.Keyword())
	}
	if !reflect.DeepEqual(c.Visible(), c.All()) {
		t.Fatalf("expected visible to equal all, got %v vs %v", c.Visible(), c.All())
	}
	if c.HasMore() {
		t.Fatalf("expected HasMore=false after last page")
	}
	if c.RequestMoreContacts(context.Background()) != nil {
		t.Fatalf("expected no fetch once the source is exhausted")
	}
}

func TestFetchErrorLeavesStateUntouched(t *testing.T) {
	src := &pagedSource{pages: []Page{{Contacts: []Contact{{ID: "1", Name: "Anna"}}, HasMore: true}}}
	c := NewController(src)
	load(t, c)
	c.ApplyFilter("an")

	boom := errors.New("network down")
	src.err = boom

	fetch := c.RequestMoreContacts(context.Background())
	err := c.Complete(fetch())

	if !errors.Is(err, ErrFetchFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected error wrapping ErrFetchFailed and cause, got %v", err)
	}
	if c.InFlight() {
		t.Fatalf("expected in-flight flag to be reset")
	}
	if c.Len() != 1 {
		t.Fatalf("expected contacts to be unchanged, got %d", c.Len())
	}
	if !c.HasMore() {
		t.Fatalf("expected HasMore to be unchanged")
	}
	if c.Keyword() != "an" {
		t.Fatalf("expected keyword to survive a failed fetch, got %q", c.Keyword())
	}
}

func TestOnScrolledNear(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		pos     ScrollPosition
		want    bool
	}{
		{"near bottom", "", ScrollPosition{ContentHeight: 50, Offset: 30, ViewportHeight: 20}, true},
		{"threshold pulls fetch early", "", ScrollPosition{ContentHeight: 50, Offset: 28, ViewportHeight: 20}, true},
		{"far from bottom", "", ScrollPosition{ContentHeight: 50, Offset: 0, ViewportHeight: 20}, false},
		{"exactly one viewport away", "", ScrollPosition{ContentHeight: 50, Offset: 28, ViewportHeight: 18}, false},
		{"search active", "bob", ScrollPosition{ContentHeight: 50, Offset: 30, ViewportHeight: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &pagedSource{pages: []Page{{Contacts: []Contact{{ID: "x"}}, HasMore: true}}}
			c := NewController(src)
			c.ApplyFilter(tt.keyword)

			fetch := c.OnScrolledNear(context.Background(), tt.pos, 4)
			if got := fetch != nil; got != tt.want {
				t.Fatalf("expected fetch=%v, got %v", tt.want, got)
			}
			if tt.want {
				fetch()
			}
			if tt.want && src.calls != 1 {
				t.Fatalf("expected one source call, got %d", src.calls)
			}
			if !tt.want && src.calls != 0 {
				t.Fatalf("expected no source call, got %d", src.calls)
			}
		})
	}
}

func TestRowAtOutOfRangePanics(t *testing.T) {
	c := NewController(&pagedSource{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out of range row")
		}
	}()
	c.RowAt(SectionContacts, 0)
}

func TestRowAtCreateGroupIndexOutOfRangePanics(t *testing.T) {
	c := NewController(&pagedSource{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for create group index 1")
		}
	}()
	c.RowAt(SectionCreateGroup, 1)
}
