package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToMarkdownLinks(t *testing.T) {
	const base = "https://app.contoso.com"

	tests := []struct {
		name, text, expected string
	}{
		{
			name:     "no citations",
			text:     "No sources here.",
			expected: "No sources here.",
		},
		{
			name:     "single citation",
			text:     "Deductible is $500 [info1.txt].",
			expected: "Deductible is $500 [info1.txt](https://app.contoso.com/content/info1.txt).",
		},
		{
			name:     "repeated citation",
			text:     "[a.pdf] and again [a.pdf]",
			expected: "[a.pdf](https://app.contoso.com/content/a.pdf) and again [a.pdf](https://app.contoso.com/content/a.pdf)",
		},
		{
			name:     "adjacent citations",
			text:     "[a.pdf][b.pdf]",
			expected: "[a.pdf](https://app.contoso.com/content/a.pdf)[b.pdf](https://app.contoso.com/content/b.pdf)",
		},
		{
			name:     "escaping keeps slashes",
			text:     "[Benefit Options/plan #2.pdf]",
			expected: "[Benefit Options/plan #2.pdf](https://app.contoso.com/content/Benefit%20Options/plan%20%232.pdf)",
		},
		{
			name:     "non ascii",
			text:     "[résumé.pdf]",
			expected: "[résumé.pdf](https://app.contoso.com/content/r%C3%A9sum%C3%A9.pdf)",
		},
		{
			name:     "empty brackets",
			text:     "[]",
			expected: "[](https://app.contoso.com/content/)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ConvertToMarkdownLinks(tc.text, base))
		})
	}
}

func TestConvertToMarkdownLinksInvalidText(t *testing.T) {
	text := "bad \xff [info1.txt]"
	assert.Equal(t, text, ConvertToMarkdownLinks(text, "http://localhost:5000"))
}

func TestQuotePath(t *testing.T) {
	assert.Equal(t, "a-b_c.d~e/f", quotePath("a-b_c.d~e/f"))
	assert.Equal(t, "a%3Ab%40c%26d%3De%2Bf", quotePath("a:b@c&d=e+f"))
}
