package server

const (
	Protocol    = "HTTP/1.0"
	ServerName  = "Web server"
	IndexFile   = "index.html"
	DefaultRoot = "public_html"
)

// NotFoundBody is sent to GET requests for files that cannot be opened.
const NotFoundBody = "<html><head><title>404 Not Found</title></head>" +
	"<body><h1>404 Not Found</h1></body></html>\r\n"

var crlf = []byte("\r\n")

func HTTPBaseResponse(statusCode int, statusText string) *Response {
	return &Response{
		StatusCode: statusCode,
		StatusText: statusText,
		Protocol:   Protocol,
		Headers:    []Header{{Key: "Server", Value: ServerName}},
	}
}

// HTTP200OK carries content followed by a trailing CRLF when withBody is
// set. Without it the response is headers only.
func HTTP200OK(content []byte, withBody bool) *Response {
	response := HTTPBaseResponse(200, "OK")
	if withBody {
		body := make([]byte, 0, len(content)+len(crlf))
		body = append(body, content...)
		response.Body = append(body, crlf...)
	}
	return response
}

func HTTP404NotFound(withBody bool) *Response {
	response := HTTPBaseResponse(404, "NOT_FOUND")
	if withBody {
		response.Body = []byte(NotFoundBody)
	}
	return response
}
