// Package wire reads the small HTTP subset the responder understands and
// writes its responses. It does not use net/http.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"todoList/internal/apperr"
)

type BodyMode string

const (
	// BodyContentLength reads exactly Content-Length bytes after the headers.
	BodyContentLength BodyMode = "content-length"
	// BodyLines concatenates every remaining line, without terminators,
	// until the peer stops writing.
	BodyLines BodyMode = "lines"
)

const DefaultMaxBodyBytes = 1 << 20

type Request struct {
	Method        string
	Path          string
	Version       string
	Headers       map[string]string
	ContentLength int
	Body          string
}

// Header looks name up case-insensitively.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

type Parser struct {
	Mode         BodyMode
	MaxBodyBytes int
}

func NewParser(mode BodyMode, maxBodyBytes int) Parser {
	if mode == "" {
		mode = BodyContentLength
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return Parser{Mode: mode, MaxBodyBytes: maxBodyBytes}
}

// Parse reads one request from r. Problems with the request itself are
// reported as malformed-request business errors; anything else is a
// transport error.
func (p Parser) Parse(r *bufio.Reader) (*Request, error) {
	line, err := readLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return nil, apperr.NewMalformedRequest("empty request")
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read request line: %w", err)
		}
	}

	req, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	if err := p.readHeaders(r, req); err != nil {
		return nil, err
	}

	switch p.Mode {
	case BodyLines:
		req.Body, err = p.readBodyLines(r)
	case BodyContentLength:
		req.Body, err = p.readBodyBounded(r, req.ContentLength)
	default:
		return nil, fmt.Errorf("unknown body mode %q", p.Mode)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func parseRequestLine(line string) (*Request, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, apperr.NewMalformedRequest(fmt.Sprintf("invalid request line %q", line))
	}

	req := &Request{
		Method:  parts[0],
		Path:    parts[1],
		Headers: make(map[string]string),
	}
	if len(parts) > 2 {
		req.Version = parts[2]
	}
	return req, nil
}

func (p Parser) readHeaders(r *bufio.Reader, req *Request) error {
	for {
		line, err := readLine(r)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read headers: %w", err)
		}
		if line == "" {
			return nil
		}

		name, value, ok := strings.Cut(line, ":")
		if ok {
			name = strings.ToLower(strings.TrimSpace(name))
			value = strings.TrimSpace(value)
			req.Headers[name] = value

			if name == "content-length" {
				n, convErr := strconv.Atoi(value)
				if convErr != nil || n < 0 {
					return apperr.NewMalformedRequest(fmt.Sprintf("invalid Content-Length %q", value))
				}
				req.ContentLength = n
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func (p Parser) readBodyBounded(r *bufio.Reader, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	if n > p.MaxBodyBytes {
		return "", apperr.NewMalformedRequest(fmt.Sprintf("body of %d bytes exceeds limit of %d", n, p.MaxBodyBytes))
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return "", apperr.NewMalformedRequest("body shorter than Content-Length")
		}
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(buf), nil
}

// readBodyLines keeps reading until EOF or a read deadline, whichever comes
// first.
func (p Parser) readBodyLines(r *bufio.Reader) (string, error) {
	var body strings.Builder
	for {
		line, err := readLine(r)
		body.WriteString(line)
		if body.Len() > p.MaxBodyBytes {
			return "", apperr.NewMalformedRequest(fmt.Sprintf("body exceeds limit of %d bytes", p.MaxBodyBytes))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
				return body.String(), nil
			}
			return "", fmt.Errorf("read body: %w", err)
		}
	}
}

// readLine returns one line without its terminator. A final line without a
// terminator is returned together with io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return line, err
}
