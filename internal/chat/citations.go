package chat

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

var citationRe = regexp.MustCompile(`\[(.*?)\]`)

// ConvertToMarkdownLinks rewrites each [source] citation in text into a
// markdown link to baseURL/content/source. Text that cannot be scanned is
// returned unchanged.
func ConvertToMarkdownLinks(text, baseURL string) string {
	if !utf8.ValidString(text) {
		slog.Warn("skipping citation rewrite for invalid utf-8 answer")
		return text
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	return citationRe.ReplaceAllStringFunc(text, func(match string) string {
		source := match[1 : len(match)-1]
		return fmt.Sprintf("[%s](%s/content/%s)", source, baseURL, quotePath(source))
	})
}

// quotePath percent-encodes everything except unreserved characters and '/'.
func quotePath(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
