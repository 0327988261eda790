package server

import (
	"log/slog"
	"time"
)

// Middleware is a function that wraps a HandlerFunc to add functionality
type Middleware func(next HandlerFunc) HandlerFunc

// LoggingMiddleware logs each request and the status it produced
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(request *Request) (*Response, error) {
			start := time.Now()

			logger.Info("request",
				"method", request.Method,
				"path", request.Path,
				"remote", request.RemoteAddr,
			)

			response, err := next(request)
			duration := time.Since(start)

			if err != nil {
				logger.Error("request failed",
					"method", request.Method,
					"path", request.Path,
					"remote", request.RemoteAddr,
					"duration", duration,
					"error", err,
				)
			} else if response != nil {
				logger.Info("response",
					"method", request.Method,
					"path", request.Path,
					"remote", request.RemoteAddr,
					"status", response.StatusCode,
					"duration", duration,
					"size", len(response.Body),
				)
			}

			return response, err
		}
	}
}

// ProtocolMiddleware fills in the protocol and Server header on responses
// that were built without them.
func ProtocolMiddleware(next HandlerFunc) HandlerFunc {
	return func(request *Request) (*Response, error) {
		response, err := next(request)
		if err != nil || response == nil {
			return response, err
		}

		if response.Protocol == "" {
			response.Protocol = Protocol
		}

		for _, header := range response.Headers {
			if header.Key == "Server" {
				return response, nil
			}
		}
		response.Headers = append(response.Headers, Header{Key: "Server", Value: ServerName})
		return response, nil
	}
}
