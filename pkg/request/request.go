package request

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/niels/poolhttpd/pkg/logging"
)

// Defaults substituted when the request line is missing pieces
const (
	DefaultMethod = "GET"
	DefaultPath   = "/"
	DefaultProto  = "HTTP/1.1"
)

// Request is the parsed form of an incoming request line.
// Only the first line of the connection is ever read; headers and body
// are ignored and Body stays empty.
type Request struct {
	Method string
	Path   string
	Proto  string
	Body   string
}

// knownMethods are the request methods this server recognizes
var knownMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// ReadLine reads the first line of an incoming stream, up to CRLF or LF.
// It blocks until a full line arrives or the stream fails.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read request line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Parse splits a request line into method, path and protocol.
// A malformed line never fails; missing or unrecognized pieces degrade
// to defaults with a warning. Warnings counts how many substitutions
// were made.
func Parse(line string) (req Request, warnings int) {
	fields := strings.Fields(line)

	req = Request{
		Method: DefaultMethod,
		Path:   DefaultPath,
		Proto:  DefaultProto,
	}

	if len(fields) >= 1 && knownMethods[fields[0]] {
		req.Method = fields[0]
	} else {
		logging.WarnWith("unrecognized request method, defaulting to GET", map[string]interface{}{
			"line": line,
		})
		warnings++
	}

	if len(fields) >= 2 {
		req.Path = fields[1]
	} else {
		logging.WarnWith("request line missing path, defaulting to /", map[string]interface{}{
			"line": line,
		})
		warnings++
	}

	if len(fields) >= 3 {
		req.Proto = fields[2]
	} else {
		logging.WarnWith("request line missing protocol, defaulting to HTTP/1.1", map[string]interface{}{
			"line": line,
		})
		warnings++
	}

	return req, warnings
}
