package sqlite

import (
	"context"

	"github.com/meszmate/newchat/internal/contacts"
)

// Source pages through the cached contacts of one account
type Source struct {
	db       *DB
	account  string
	pageSize int
	offset   int
}

// NewSource returns a contacts.Source over the cache
func NewSource(db *DB, account string, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Source{db: db, account: account, pageSize: pageSize}
}

// FetchNextPage returns the page after the previous one
func (s *Source) FetchNextPage(ctx context.Context) (contacts.Page, error) {
	// One extra row tells us whether another page exists.
	rows, err := s.db.ContactsPage(ctx, s.account, s.pageSize+1, s.offset)
	if err != nil {
		return contacts.Page{}, err
	}

	hasMore := len(rows) > s.pageSize
	if hasMore {
		rows = rows[:s.pageSize]
	}
	s.offset += len(rows)

	return contacts.Page{Contacts: rows, HasMore: hasMore}, nil
}
