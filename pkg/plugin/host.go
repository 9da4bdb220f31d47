package plugin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// ErrNotFound is returned when the plugin binary does not exist
var ErrNotFound = errors.New("plugin not found")

// Host manages the directory plugin process
type Host struct {
	mu     sync.Mutex
	client *plugin.Client
	dir    Directory
	logger hclog.Logger
}

// NewHost creates a host that writes plugin logs to w
func NewHost(w io.Writer) *Host {
	if w == nil {
		w = io.Discard
	}
	return &Host{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:   "plugin",
			Output: w,
			Level:  hclog.Info,
		}),
	}
}

// Load starts the plugin at path and dispenses its directory
func (h *Host) Load(path string) (Directory, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			pluginName: &DirectoryPlugin{},
		},
		Cmd:    exec.Command(path),
		Logger: h.logger,
		AllowedProtocols: []plugin.Protocol{
			plugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to connect to plugin: %w", err)
	}

	raw, err := rpcClient.Dispense(pluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	dir, ok := raw.(Directory)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not serve a directory", path)
	}

	h.mu.Lock()
	if h.client != nil {
		h.client.Kill()
	}
	h.client = client
	h.dir = dir
	h.mu.Unlock()

	return dir, nil
}

// Directory returns the loaded directory, or nil
func (h *Host) Directory() Directory {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dir
}

// Close stops the plugin process
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		h.client.Kill()
		h.client = nil
		h.dir = nil
	}
}
