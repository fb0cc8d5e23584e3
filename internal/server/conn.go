package server

import (
	"bufio"
	"errors"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/http-fileserver/internal/request"
	"github.com/Brownie44l1/http-fileserver/internal/response"
)

// serveConn performs exactly one request/response exchange and closes conn.
func (s *Server) serveConn(conn net.Conn) {
	defer s.conns.Done()
	defer conn.Close()

	s.metrics.ActiveConnections.Add(1)
	defer s.metrics.ActiveConnections.Add(-1)

	start := time.Now()
	requestID := uuid.NewString()
	bw := bufio.NewWriter(conn)
	w := response.NewWriter(bw)

	var line string

	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic recovered",
				Field{"request_id", requestID},
				Field{"error", r},
				Field{"stack", string(debug.Stack())},
			)
			if !w.Started() {
				w.ErrorResponse(response.StatusInternalServerError, "")
				bw.Flush()
			}
			s.finish(conn, requestID, line, response.StatusInternalServerError, start)
		}
	}()

	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			s.Logger.Warn("set read deadline failed",
				Field{"request_id", requestID},
				Field{"error", err},
			)
		}
	}

	buf := GetRequestBuffer()
	req, err := request.ReadRequest(conn, buf)
	PutRequestBuffer(buf)

	var resp *response.Response
	if err != nil {
		if req != nil {
			line = req.Line
		}
		resp = response.Error(response.StatusBadRequest, "Bad request: "+badRequestReason(err))
	} else {
		line = req.Line
		resp = s.respond(req.RequestLine.RequestTarget)
	}

	if err := s.write(bw, w, resp); err != nil {
		s.Logger.Warn("write failed",
			Field{"request_id", requestID},
			Field{"error", err},
		)
	}

	s.finish(conn, requestID, line, resp.Status, start)
}

// finish records metrics and writes the one log line of an exchange.
func (s *Server) finish(conn net.Conn, requestID, line string, status response.StatusCode, start time.Time) {
	duration := time.Since(start)
	s.metrics.RecordRequest(status, duration)

	s.Logger.Info("request",
		Field{"request_id", requestID},
		Field{"remote", remoteAddr(conn)},
		Field{"line", line},
		Field{"status", int(status)},
		Field{"duration_ms", duration.Milliseconds()},
	)
}

func (s *Server) write(bw *bufio.Writer, w *response.Writer, resp *response.Response) error {
	if err := w.WriteResponse(resp); err != nil {
		return err
	}
	return bw.Flush()
}

func badRequestReason(err error) string {
	switch {
	case errors.Is(err, request.ErrEmptyRequest):
		return "empty request"
	case errors.Is(err, request.ErrMalformedRequestLine):
		return "malformed request line"
	default:
		return "unreadable request"
	}
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
