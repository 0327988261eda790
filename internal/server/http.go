package server

import (
	"bytes"
	"strings"
)

// httpMarker must appear in a request line for it to be answered.
const httpMarker = "HTTP/"

type Request struct {
	Method     string
	Path       string
	Protocol   string
	RemoteAddr string
}

// IsGet reports whether the response should carry a body.
func (r *Request) IsGet() bool {
	return r.Method == "GET"
}

type Header struct {
	Key   string
	Value string
}

type Response struct {
	StatusCode int
	StatusText string
	Protocol   string
	Headers    []Header
	Body       []byte
}

// ParseRequestLine splits a request line into method, path and protocol.
// The second result is false when the line must be ignored without a
// response: it lacks the "HTTP/" marker or does not hold exactly three
// whitespace-separated tokens.
func ParseRequestLine(line []byte) (*Request, bool) {
	if !bytes.Contains(line, []byte(httpMarker)) {
		return nil, false
	}

	fields := strings.Fields(string(line))
	if len(fields) != 3 {
		return nil, false
	}

	return &Request{
		Method:   fields[0],
		Path:     fields[1],
		Protocol: fields[2],
	}, true
}

// ResolvePath maps a request path onto the document root by plain
// concatenation. A trailing slash selects the directory's index file.
// The path is not cleaned, so ".." segments reach outside the root.
func ResolvePath(root, path string) string {
	name := root + path
	if strings.HasSuffix(name, "/") {
		name += IndexFile
	}
	return name
}
