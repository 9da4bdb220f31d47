package plugin

import (
	"context"

	"github.com/meszmate/newchat/internal/contacts"
)

// Source pages through a Directory, tracking the offset on the host side
type Source struct {
	dir      Directory
	pageSize int
	offset   int
}

// NewSource adapts dir to contacts.Source
func NewSource(dir Directory, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Source{dir: dir, pageSize: pageSize}
}

// FetchNextPage asks the directory for the page after the previous one. A
// cancelled context abandons the call; the offset only advances on success.
func (s *Source) FetchNextPage(ctx context.Context) (contacts.Page, error) {
	if err := ctx.Err(); err != nil {
		return contacts.Page{}, err
	}

	resp, err := s.page(ctx)
	if err != nil {
		return contacts.Page{}, err
	}

	s.offset += len(resp.Contacts)
	return contacts.Page{Contacts: toContacts(resp.Contacts), HasMore: resp.HasMore}, nil
}

func (s *Source) page(ctx context.Context) (PageResponse, error) {
	if c, ok := s.dir.(*rpcClient); ok {
		call, resp := c.call(s.offset, s.pageSize)
		select {
		case <-call.Done:
			return *resp, call.Error
		case <-ctx.Done():
			return PageResponse{}, ctx.Err()
		}
	}

	type result struct {
		resp PageResponse
		err  error
	}
	done := make(chan result, 1)
	offset, limit := s.offset, s.pageSize
	go func() {
		resp, err := s.dir.Page(offset, limit)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return PageResponse{}, ctx.Err()
	}
}
