package routes

import (
	"fmt"

	"github.com/niels/poolhttpd/pkg/files"
	"github.com/niels/poolhttpd/pkg/logging"
	"github.com/niels/poolhttpd/pkg/response"
)

// Table maps request paths to responses frozen at registration time.
// It is populated during setup and read-only once the server starts
// accepting, so workers read it without synchronization.
type Table struct {
	reader       files.Reader
	fallbackFile string
	entries      map[string]*response.Response
	fallback     *response.Response
}

// New creates a table whose fallback body is read from fallbackFile.
// A fallback that cannot be read is a startup error: every lookup miss
// depends on it.
func New(reader files.Reader, fallbackFile string, notFoundAs404 bool) (*Table, error) {
	body, err := reader.ReadFile(fallbackFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback file %s: %w", fallbackFile, err)
	}

	fallback := response.New(response.StatusOK, body)
	if notFoundAs404 {
		fallback = fallback.WithStatus(response.StatusNotFound)
	}

	return &Table{
		reader:       reader,
		fallbackFile: fallbackFile,
		entries:      make(map[string]*response.Response),
		fallback:     fallback,
	}, nil
}

// RegisterGet reads fileName once and freezes its content as the
// response for path. Later changes to the backing file are never
// reflected. A route file that cannot be read falls back to the
// fallback file; if that read also fails, registration fails.
func (t *Table) RegisterGet(path, fileName string) error {
	body, err := t.reader.ReadFile(fileName)
	if err != nil {
		logging.WarnWith("failed to read route file, falling back", map[string]interface{}{
			"path":  path,
			"file":  fileName,
			"error": err.Error(),
		})

		body, err = t.reader.ReadFile(t.fallbackFile)
		if err != nil {
			return fmt.Errorf("failed to register %s: fallback file %s unreadable: %w",
				path, t.fallbackFile, err)
		}
	}

	t.entries[path] = response.New(response.StatusOK, body)

	logging.DebugWith("route registered", map[string]interface{}{
		"path":  path,
		"file":  fileName,
		"bytes": len(body),
	})

	return nil
}

// Lookup resolves a path by exact string match. A miss is logged and
// served with the fallback response; the boolean reports whether the
// path was registered.
func (t *Table) Lookup(path string) (*response.Response, bool) {
	if resp, ok := t.entries[path]; ok {
		return resp, true
	}

	logging.WarnWith("no handler found for path", map[string]interface{}{
		"path": path,
	})
	return t.fallback, false
}

// Len returns the number of registered routes, not counting the fallback
func (t *Table) Len() int {
	return len(t.entries)
}
