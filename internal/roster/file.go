package roster

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/meszmate/newchat/internal/contacts"
)

// File is the TOML layout of a contact list:
//
//	[[contact]]
//	id = "alice@example.com"
//	name = "Alice"
//	image_url = "https://example.com/alice.png"
type File struct {
	Contacts []FileContact `toml:"contact"`
}

// FileContact is one [[contact]] entry
type FileContact struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	ImageURL string `toml:"image_url"`
}

// LoadFile reads a contact list into a new directory
func LoadFile(path string) (*Directory, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to parse contacts file: %w", err)
	}

	d := NewDirectory()
	for _, c := range f.Contacts {
		d.Set(contacts.Contact{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL})
	}
	return d, nil
}
