// Package plugin serves contact directories out of process.
//
// A directory plugin is a separate binary that calls Serve with its
// Directory implementation. The host starts it with Host.Load and pages
// through it with NewSource.
package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/meszmate/newchat/internal/contacts"
)

// Directory is the interface directory plugins implement
type Directory interface {
	// Page returns up to limit contacts starting at offset, and whether
	// more contacts follow.
	Page(offset, limit int) (PageResponse, error)
}

// PageRequest is the RPC argument of Directory.Page
type PageRequest struct {
	Offset int
	Limit  int
}

// PageResponse is the RPC reply of Directory.Page
type PageResponse struct {
	Contacts []Contact
	HasMore  bool
}

// Contact is the wire form of contacts.Contact
type Contact struct {
	ID       string
	Name     string
	ImageURL string
}

func toContacts(in []Contact) []contacts.Contact {
	out := make([]contacts.Contact, 0, len(in))
	for _, c := range in {
		out = append(out, contacts.Contact{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL})
	}
	return out
}

// FromContacts converts contacts to their wire form
func FromContacts(in []contacts.Contact) []Contact {
	out := make([]Contact, 0, len(in))
	for _, c := range in {
		out = append(out, Contact{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL})
	}
	return out
}

// Handshake is the plugin handshake config
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "NEWCHAT_PLUGIN",
	MagicCookieValue: "directory",
}

// pluginName is the key under which the directory is dispensed
const pluginName = "directory"

// DirectoryPlugin is the go-plugin glue for a Directory
type DirectoryPlugin struct {
	Impl Directory
}

// Server returns the RPC server side
func (p *DirectoryPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &rpcServer{impl: p.Impl}, nil
}

// Client returns the RPC client side
func (p *DirectoryPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &rpcClient{client: c}, nil
}

// Serve runs a directory plugin. It blocks until the host disconnects.
func Serve(impl Directory) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			pluginName: &DirectoryPlugin{Impl: impl},
		},
	})
}

type rpcServer struct {
	impl Directory
}

func (s *rpcServer) Page(req PageRequest, resp *PageResponse) error {
	r, err := s.impl.Page(req.Offset, req.Limit)
	if err != nil {
		return err
	}
	*resp = r
	return nil
}

type rpcClient struct {
	client *rpc.Client
}

func (c *rpcClient) Page(offset, limit int) (PageResponse, error) {
	var resp PageResponse
	err := c.client.Call("Plugin.Page", PageRequest{Offset: offset, Limit: limit}, &resp)
	return resp, err
}

// call starts an asynchronous Page request
func (c *rpcClient) call(offset, limit int) (*rpc.Call, *PageResponse) {
	resp := new(PageResponse)
	call := c.client.Go("Plugin.Page", PageRequest{Offset: offset, Limit: limit}, resp, make(chan *rpc.Call, 1))
	return call, resp
}
