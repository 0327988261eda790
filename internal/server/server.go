package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	// lingerTimeout bounds how long unread request bytes are drained after
	// the response so that closing does not reset the connection.
	lingerTimeout = 500 * time.Millisecond
	lingerLimit   = 64 << 10

	maxAcceptDelay = time.Second
)

type Server interface {
	ListenAndServe(ctx context.Context) error
}

var _ Server = (*HTTPServer)(nil)

// HTTPServer answers one connection at a time: read the request line,
// respond, close, then accept the next connection.
type HTTPServer struct {
	Addr          string
	FileDirectory string
	Handler       Handler
	Middlewares   []Middleware
	Logger        *slog.Logger

	// Dump, when set, receives a hex dump of every request line.
	Dump io.Writer
	// MaxLineLength bounds the request line; zero means MaxRequestLineLength.
	MaxLineLength int

	mu       sync.Mutex
	listener net.Listener
}

func NewHTTPServer(addr string, fileDirectory string, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return &HTTPServer{
		Addr:          addr,
		FileDirectory: fileDirectory,
		Handler: &FileHandler{
			FileDirectory: fileDirectory,
			ChunkSize:     DefaultChunkSize,
			Logger:        logger,
		},
		Middlewares: []Middleware{
			ProtocolMiddleware,
			LoggingMiddleware(logger),
		},
		Logger: logger,
	}
}

// ListenAndServe listens on the TCP4 address s.Addr and serves until ctx is
// cancelled. Listen failures are returned immediately.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	listen, err := net.Listen("tcp4", s.Addr)
	if err != nil {
		s.Logger.Error("failed to listen", "addr", s.Addr, "error", err)
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen and handles each one to completion
// before accepting the next. It returns nil once ctx is cancelled or the
// listener is closed. A failed Accept is logged and retried with backoff.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	s.mu.Lock()
	s.listener = listen
	s.mu.Unlock()

	defer listen.Close()
	stop := context.AfterFunc(ctx, func() { listen.Close() })
	defer stop()

	s.Logger.Info("listening", "addr", listen.Addr().String(), "directory", s.FileDirectory)

	var delay time.Duration
	for {
		conn, err := listen.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.Logger.Info("server stopped", "addr", listen.Addr().String())
				return nil
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.Logger.Error("failed to accept connection", "error", err, "retry", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		s.handleConnection(ctx, conn)
	}
}

// ListenAddr returns the bound address, or nil before Serve has started.
func (s *HTTPServer) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *HTTPServer) handleConnection(ctx context.Context, conn net.Conn) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer s.shutdown(conn)

	remote := conn.RemoteAddr().String()
	s.Logger.Info("accepted connection", "remote", remote)

	line, err := ReadLine(conn, s.MaxLineLength)
	if err != nil {
		if errors.Is(err, ErrNoLine) {
			s.Logger.Info("connection closed without a request line", "remote", remote)
		} else {
			s.Logger.Warn("failed to read request line", "remote", remote, "error", err)
		}
		return
	}

	if s.Dump != nil {
		DumpBytes(s.Dump, line)
	}

	request, ok := ParseRequestLine(line)
	if !ok {
		s.Logger.Info("ignoring request line", "remote", remote, "line", strconv.Quote(string(line)))
		return
	}
	request.RemoteAddr = remote

	response, err := s.pipeline()(request)
	if err != nil {
		s.Logger.Error("failed to handle request", "remote", remote, "error", err)
		return
	}

	if err := WriteResponse(conn, response); err != nil {
		s.Logger.Warn("failed to send response", "remote", remote, "status", response.StatusCode, "error", err)
		return
	}
	s.Logger.Debug("sent response", "remote", remote, "status", response.StatusCode, "text", response.StatusText)
}

func (s *HTTPServer) pipeline() HandlerFunc {
	handler := s.Handler
	if handler == nil {
		handler = &FileHandler{FileDirectory: s.FileDirectory, Logger: s.Logger}
	}

	handlerPipeline := handler.Handle()
	for _, middleware := range s.Middlewares {
		handlerPipeline = middleware(handlerPipeline)
	}
	return handlerPipeline
}

// shutdown half-closes the write side so the peer sees the end of the
// response, drains what the peer still sends for a short while, then closes.
func (s *HTTPServer) shutdown(conn net.Conn) {
	if hc, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := hc.CloseWrite(); err == nil {
			conn.SetReadDeadline(time.Now().Add(lingerTimeout))
			io.CopyN(io.Discard, conn, lingerLimit)
		}
	}
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.Logger.Debug("failed to close connection", "error", err)
	}
}

// WriteResponse sends the status line, headers, blank line and body,
// stopping at the first failed send.
func WriteResponse(w io.Writer, response *Response) error {
	statusLine := fmt.Sprintf("%s %d %s\r\n", response.Protocol, response.StatusCode, response.StatusText)
	if err := SendAll(w, []byte(statusLine)); err != nil {
		return err
	}

	header := make([]byte, 0, 64)
	for _, h := range response.Headers {
		header = append(header, h.Key...)
		header = append(header, ": "...)
		header = append(header, h.Value...)
		header = append(header, crlf...)
	}
	header = append(header, crlf...)
	if err := SendAll(w, header); err != nil {
		return err
	}

	if len(response.Body) == 0 {
		return nil
	}
	return SendAll(w, response.Body)
}
