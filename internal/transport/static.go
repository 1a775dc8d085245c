package transport

import (
	"fmt"
	"mime"
	"net"
	"os"
	"path/filepath"
	"strings"

	"relay_pls/internal/http/message"
	"relay_pls/internal/metrics"
)

// StaticHandler serves files under a root directory. The routed prefix is
// not stripped, so the full request path is resolved beneath the root.
type StaticHandler struct {
	root    string
	metrics *metrics.Metrics
}

func NewStaticHandler(root string, m *metrics.Metrics) *StaticHandler {
	return &StaticHandler{
		root:    root,
		metrics: m,
	}
}

func (s *StaticHandler) Serve(conn net.Conn, req *message.Request) error {
	s.metrics.RecordConnection("static")

	if req.Method() != "GET" {
		_, err := conn.Write(methodNotAllowedResponse)
		return err
	}

	path, ok := s.resolve(requestPath(req.URI()))
	if !ok {
		_, err := conn.Write(notFoundResponse)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_, werr := conn.Write(notFoundResponse)
		return werr
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	head := fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"Content-Type: %s\r\n"+
		"Content-Length: %d\r\n"+
		"Connection: close\r\n\r\n", contentType, len(data))

	if _, err = conn.Write([]byte(head)); err != nil {
		return err
	}
	_, err = conn.Write(data)
	return err
}

// resolve maps a request path to a file under the root, refusing any
// path that escapes it. Directories fall back to index.html.
func (s *StaticHandler) resolve(path string) (string, bool) {
	full := filepath.Join(s.root, filepath.Clean("/"+path))

	if !strings.HasPrefix(full, filepath.Clean(s.root)) {
		return "", false
	}

	info, err := os.Stat(full)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		if _, err = os.Stat(full); err != nil {
			return "", false
		}
	}
	return full, true
}
