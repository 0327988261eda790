package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultChunkSize is the size of each read when loading a file.
const DefaultChunkSize = 100

var errIsDirectory = errors.New("is a directory")

type HandlerFunc func(request *Request) (*Response, error)

type Handler interface {
	Handle() HandlerFunc
}

// FileHandler serves files found under FileDirectory. A file that cannot be
// opened or read is answered with 404.
type FileHandler struct {
	FileDirectory string
	ChunkSize     int
	Logger        *slog.Logger
}

func (h *FileHandler) Handle() HandlerFunc {
	return func(request *Request) (*Response, error) {
		name := ResolvePath(h.FileDirectory, request.Path)

		file, err := openRegular(name)
		if err != nil {
			h.logger().Debug("failed to open file", "file", name, "error", err)
			return HTTP404NotFound(request.IsGet()), nil
		}
		defer file.Close()

		if !request.IsGet() {
			return HTTP200OK(nil, false), nil
		}

		content, err := LoadFile(file, h.ChunkSize)
		if err != nil {
			h.logger().Error("failed to read file", "file", name, "read", len(content), "error", err)
			return HTTP404NotFound(true), nil
		}
		return HTTP200OK(content, true), nil
	}
}

func (h *FileHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func openRegular(name string) (*os.File, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s: %w", name, errIsDirectory)
	}
	return file, nil
}

// LoadFile reads r to the end in chunkSize reads, appending each chunk to a
// length-tracked buffer. On error the bytes read so far are returned with it.
func LoadFile(r io.Reader, chunkSize int) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	chunk := make([]byte, chunkSize)
	var content []byte
	for {
		n, err := r.Read(chunk)
		content = append(content, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return content, nil
		}
		if err != nil {
			return content, fmt.Errorf("failed to read file: %w", err)
		}
	}
}
