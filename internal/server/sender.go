package server

import (
	"fmt"
	"io"
)

// SendError reports a transport failure part way through a send.
type SendError struct {
	Sent  int // bytes accepted before the failure
	Total int
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send failed after %d of %d bytes: %v", e.Sent, e.Total, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// SendAll writes p to w in full, looping over partial writes.
func SendAll(w io.Writer, p []byte) error {
	sent := 0
	for sent < len(p) {
		n, err := w.Write(p[sent:])
		if n > 0 {
			sent += n
		}
		if err != nil {
			return &SendError{Sent: sent, Total: len(p), Err: err}
		}
		if n == 0 {
			return &SendError{Sent: sent, Total: len(p), Err: io.ErrShortWrite}
		}
	}
	return nil
}
