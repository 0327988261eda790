package server

import (
	"errors"
	"fmt"
	"io"
)

// MaxRequestLineLength bounds the request line held in memory.
const MaxRequestLineLength = 8192

var (
	// ErrNoLine is returned when the peer closes the stream before a CRLF
	// terminator arrives. It wraps io.EOF.
	ErrNoLine = fmt.Errorf("connection closed before end of line: %w", io.EOF)

	// ErrLineTooLong is returned when no CRLF is seen within the line bound.
	ErrLineTooLong = errors.New("request line too long")
)

// ReadLine reads a single CRLF-terminated line from r and returns it without
// the terminator. Bytes are read one at a time so nothing past the CRLF is
// consumed from the connection. A limit of zero or less means
// MaxRequestLineLength.
func ReadLine(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = MaxRequestLineLength
	}

	var (
		line    []byte
		pending bool // a CR has been seen and not yet emitted
		b       [1]byte
	)

	for {
		n, err := r.Read(b[:])
		if n == 1 {
			switch {
			case b[0] == '\n' && pending:
				return line, nil
			case b[0] == '\r':
				if pending {
					line = append(line, '\r')
				}
				pending = true
			default:
				if pending {
					line = append(line, '\r')
					pending = false
				}
				line = append(line, b[0])
			}

			if len(line) > limit {
				return nil, ErrLineTooLong
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoLine
			}
			return nil, fmt.Errorf("failed to read request line: %w", err)
		}
	}
}
