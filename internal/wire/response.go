package wire

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	StatusOK         = 200
	StatusBadRequest = 400

	contentTypeHTML = "text/html; charset=UTF-8"
)

var statusText = map[int]string{
	StatusOK:         "OK",
	StatusBadRequest: "Bad Request",
}

// ContentLength is the UTF-8 byte length of body, or its character count
// when body is not valid UTF-8.
func ContentLength(body string) int {
	if _, _, err := transform.String(encoding.UTF8Validator, body); err != nil {
		return utf8.RuneCountInString(body)
	}
	return len(body)
}

// WriteResponse writes a complete HTML response.
func WriteResponse(w io.Writer, status int, body string) error {
	text, ok := statusText[status]
	if !ok {
		return fmt.Errorf("unsupported status %d", status)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, text)
	fmt.Fprintf(bw, "Content-Type: %s\r\n", contentTypeHTML)
	fmt.Fprintf(bw, "Content-Length: %d\r\n", ContentLength(body))
	bw.WriteString("Connection: close\r\n")
	bw.WriteString("\r\n")
	bw.WriteString(body)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
