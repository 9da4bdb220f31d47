// Command directory is a sample contact directory plugin. It serves the
// contacts listed in the TOML file named by NEWCHAT_DIRECTORY_FILE.
package main

import (
	"fmt"
	"os"

	"github.com/meszmate/newchat/internal/roster"
	"github.com/meszmate/newchat/pkg/plugin"
)

// FileDirectory serves a contact file loaded at startup
type FileDirectory struct {
	dir *roster.Directory
}

// Page returns a slice of the directory
func (d *FileDirectory) Page(offset, limit int) (plugin.PageResponse, error) {
	items, more := d.dir.Slice(offset, limit)
	return plugin.PageResponse{
		Contacts: plugin.FromContacts(items),
		HasMore:  more,
	}, nil
}

func main() {
	path := os.Getenv("NEWCHAT_DIRECTORY_FILE")
	if path == "" {
		fmt.Fprintln(os.Stderr, "NEWCHAT_DIRECTORY_FILE is not set")
		os.Exit(1)
	}

	dir, err := roster.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading contacts: %v\n", err)
		os.Exit(1)
	}

	plugin.Serve(&FileDirectory{dir: dir})
}
