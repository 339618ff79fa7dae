package embed

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperHex = "0123456789ABCDEF"

// errInvalidEncoding is returned when a percent-decoded value is not valid UTF-8.
var errInvalidEncoding = errors.New("invalid percent-encoded UTF-8")

// appendParams joins key=value pairs onto base, adding the "?" only when there is something to add.
func appendParams(base string, params []string) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}

// encodeURIComponent percent-encodes everything except the URI component unreserved set.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponentByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// decodeURIComponent reverses encodeURIComponent. Unlike query decoding, "+" stays a plus.
func decodeURIComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(decoded) {
		return "", errInvalidEncoding
	}
	return decoded, nil
}

func isUnreservedComponentByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
