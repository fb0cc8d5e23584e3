package server

import (
	"os"

	"github.com/Brownie44l1/http-fileserver/internal/files"
	"github.com/Brownie44l1/http-fileserver/internal/listing"
	"github.com/Brownie44l1/http-fileserver/internal/mime"
	"github.com/Brownie44l1/http-fileserver/internal/resolver"
	"github.com/Brownie44l1/http-fileserver/internal/response"
)

const (
	msgCannotList = "Cannot list directory"
	msgCannotRead = "Cannot retrieve file content"
)

// respond maps a request target to the response it deserves.
func (s *Server) respond(target string) *response.Response {
	t := resolver.Resolve(target)
	if t.IsRoot() {
		return s.listDirectory(s.cfg.Root)
	}

	path := resolver.Locate(s.cfg.Root, t)
	if !s.cfg.AllowEscape {
		abs, err := resolver.Contain(s.cfg.Root, t)
		if err != nil {
			s.Logger.Debug("path rejected", Field{"target", target}, Field{"error", err})
			return response.Error(response.StatusNotFound, msgCannotRead)
		}
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		return response.Error(response.StatusNotFound, msgCannotRead)
	}

	if info.IsDir() {
		return s.listDirectory(path)
	}
	if !info.Mode().IsRegular() {
		// FIFOs, sockets and devices cannot be listed, and opening some of
		// them blocks.
		s.Logger.Debug("not listable", Field{"path", path}, Field{"mode", info.Mode().String()})
		return response.Error(response.StatusInternalServerError, msgCannotList)
	}

	data, err := files.ReadText(path)
	if err != nil {
		s.Logger.Debug("read failed", Field{"path", path}, Field{"error", err})
		return response.Error(response.StatusInternalServerError, msgCannotRead)
	}

	return response.New(response.StatusOK, mime.Resolve(path), data)
}

func (s *Server) listDirectory(dir string) *response.Response {
	body, err := listing.List(dir)
	if err != nil {
		s.Logger.Debug("listing failed", Field{"dir", dir}, Field{"error", err})
		return response.Error(response.StatusInternalServerError, msgCannotList)
	}
	return response.Text(response.StatusOK, body)
}
