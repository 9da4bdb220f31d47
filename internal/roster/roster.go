package roster

import (
	"context"
	"sort"
	"strings"
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/newchat/internal/contacts"
)

// Key returns the directory key for a contact ID: the bare JID when the ID
// parses as one, otherwise the trimmed ID.
func Key(id string) string {
	id = strings.TrimSpace(id)
	j, err := jid.Parse(id)
	if err != nil {
		return id
	}
	return j.Bare().String()
}

// Directory is an in-memory set of contacts keyed by Key
type Directory struct {
	mu    sync.RWMutex
	items map[string]contacts.Contact
}

// NewDirectory creates an empty directory
func NewDirectory() *Directory {
	return &Directory{
		items: make(map[string]contacts.Contact),
	}
}

// Set sets or updates a contact. The stored ID is the normalized key.
// Contacts with an empty ID are ignored.
func (d *Directory) Set(c contacts.Contact) {
	key := Key(c.ID)
	if key == "" {
		return
	}
	c.ID = key

	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[key] = c
}

// All returns every contact ordered by display name, then ID
func (d *Directory) All() []contacts.Contact {
	d.mu.RLock()
	items := make([]contacts.Contact, 0, len(d.items))
	for _, c := range d.items {
		items = append(items, c)
	}
	d.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].DisplayName()), strings.ToLower(items[j].DisplayName())
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// Count returns the number of contacts
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

// Slice returns up to limit contacts of All starting at offset, and whether
// more follow.
func (d *Directory) Slice(offset, limit int) ([]contacts.Contact, bool) {
	all := d.All()
	if offset >= len(all) || limit <= 0 {
		return nil, false
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], end < len(all)
}

// Pager pages over a snapshot of a directory
type Pager struct {
	items    []contacts.Contact
	pageSize int
	offset   int
}

// Pager returns a contacts.Source over the current contents
func (d *Directory) Pager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Pager{items: d.All(), pageSize: pageSize}
}

// FetchNextPage returns the next page of the snapshot
func (p *Pager) FetchNextPage(ctx context.Context) (contacts.Page, error) {
	if err := ctx.Err(); err != nil {
		return contacts.Page{}, err
	}

	end := p.offset + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	page := contacts.Page{
		Contacts: append([]contacts.Contact(nil), p.items[p.offset:end]...),
		HasMore:  end < len(p.items),
	}
	p.offset = end
	return page, nil
}
