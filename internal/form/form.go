// Package form reads and writes application/x-www-form-urlencoded bodies.
package form

import (
	"net/url"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

type field struct {
	key   string
	value string
}

// Values holds decoded pairs in body order. Lookups return the first match.
type Values struct {
	fields []field
}

// Decode splits body on '&' and each pair on its first '='. Values are
// percent-decoded as UTF-8 with invalid bytes replaced by U+FFFD; a value
// with a broken escape is kept raw.
// Pairs without '=' carry no value and are skipped.
func Decode(body string) Values {
	var v Values
	if body == "" {
		return v
	}
	for _, pair := range strings.Split(body, "&") {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		v.fields = append(v.fields, field{key: key, value: decodeValue(raw)})
	}
	return v
}

func decodeValue(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	valid, err := unicode.UTF8.NewDecoder().String(decoded)
	if err != nil {
		return strings.ToValidUTF8(decoded, "\uFFFD")
	}
	return valid
}

// Lookup reports the value for key and whether key was present at all.
func (v Values) Lookup(key string) (string, bool) {
	for _, f := range v.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return "", false
}

// Get returns the value for key or "" when absent.
func (v Values) Get(key string) string {
	value, _ := v.Lookup(key)
	return value
}

// Optional returns a pointer to the value, nil when key is absent.
func (v Values) Optional(key string) *string {
	value, ok := v.Lookup(key)
	if !ok {
		return nil
	}
	return &value
}

func (v Values) Len() int {
	return len(v.fields)
}

// Add appends a pair; used to build bodies for Encode.
func (v *Values) Add(key, value string) {
	v.fields = append(v.fields, field{key: key, value: value})
}

// Encode renders pairs in insertion order, escaping spaces as %20.
func (v Values) Encode() string {
	var b strings.Builder
	for i, f := range v.fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.key))
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(url.QueryEscape(f.value), "+", "%20"))
	}
	return b.String()
}
