package server

import (
	"net"
	"time"

	"github.com/niels/poolhttpd/pkg/logging"
	"github.com/niels/poolhttpd/pkg/request"
)

// dispatch runs the full pipeline for one connection: read the request
// line, parse it, look up the route and write the response. Every error
// past this point is isolated to this connection; the worker running
// the job keeps serving.
func (s *Server) dispatch(conn net.Conn) {
	defer conn.Close()

	if s.cfg.Server.ReadTimeout > 0 {
		deadline := time.Now().Add(time.Duration(s.cfg.Server.ReadTimeout) * time.Second)
		if err := conn.SetReadDeadline(deadline); err != nil {
			logging.WarnWith("failed to set read deadline", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	line, err := request.ReadLine(conn)
	if err != nil {
		s.tracker.ConnectionDropped()
		logging.ErrorWith("failed to read request line, dropping connection", map[string]interface{}{
			"remote": conn.RemoteAddr().String(),
			"error":  err.Error(),
		})
		return
	}

	req, warnings := request.Parse(line)
	s.tracker.ParseWarnings(warnings)

	resp, hit := s.table.Lookup(req.Path)

	if s.cfg.Server.WriteTimeout > 0 {
		deadline := time.Now().Add(time.Duration(s.cfg.Server.WriteTimeout) * time.Second)
		if err := conn.SetWriteDeadline(deadline); err != nil {
			logging.WarnWith("failed to set write deadline", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if err := resp.WriteTo(conn, req.Proto); err != nil {
		s.tracker.ConnectionDropped()
		logging.ErrorWith("failed to write response, dropping connection", map[string]interface{}{
			"remote": conn.RemoteAddr().String(),
			"path":   req.Path,
			"error":  err.Error(),
		})
		return
	}

	s.tracker.ResponseServed(!hit)

	logging.DebugWith("request served", map[string]interface{}{
		"remote": conn.RemoteAddr().String(),
		"method": req.Method,
		"path":   req.Path,
		"status": int(resp.Status),
		"bytes":  len(resp.Body),
	})
}
