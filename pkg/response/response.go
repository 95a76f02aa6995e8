package response

import (
	"fmt"
	"io"
)

// Status is an HTTP status code served by this server
type Status int

// Supported status codes
const (
	StatusOK                  Status = 200
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusInternalServerError Status = 500
)

// ReasonPhrase returns the canonical reason phrase for a status
func (s Status) ReasonPhrase() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}

// Response is a fully precomputed reply for one connection
type Response struct {
	Proto  string
	Status Status
	Body   []byte
}

// New creates a response with the given status and body
func New(status Status, body []byte) *Response {
	return &Response{
		Proto:  "HTTP/1.1",
		Status: status,
		Body:   body,
	}
}

// WithStatus returns a copy of the response carrying a different status.
// The body is shared, not copied; responses are never mutated after setup.
func (r *Response) WithStatus(status Status) *Response {
	return &Response{
		Proto:  r.Proto,
		Status: status,
		Body:   r.Body,
	}
}

// Format renders the response into wire bytes.
// Content-Length is the byte length of the body, which matters for
// multi-byte text content.
func (r *Response) Format(proto string) []byte {
	if proto == "" {
		proto = r.Proto
	}
	header := fmt.Sprintf("%s %d %s\r\nContent-Length: %d\r\n\r\n",
		proto, int(r.Status), r.Status.ReasonPhrase(), len(r.Body))

	buf := make([]byte, 0, len(header)+len(r.Body))
	buf = append(buf, header...)
	buf = append(buf, r.Body...)
	return buf
}

// WriteTo writes the formatted response to w using the given protocol string
func (r *Response) WriteTo(w io.Writer, proto string) error {
	if _, err := w.Write(r.Format(proto)); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
