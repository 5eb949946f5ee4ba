package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello  ", "hello"},
		{"collapses spaces and tabs", "a  \t b", "a b"},
		{"keeps single newlines", "line one\nline two", "line one\nline two"},
		{"collapses newline runs", "a\n\n\n\nb", "a\n\nb"},
		{"normalizes crlf", "a\r\nb", "a\nb"},
		{"strips control chars", "a\x00b\x07c", "abc"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"1-555-123-4567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"555.123.4567 ", "(555) 123-4567"},
		// Not a formattable NANP number: returned trimmed, unchanged.
		{"123-4567", "123-4567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"call us", "call us"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPhone(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "TX", normalizeState("tx"))
	assert.Equal(t, "TX", normalizeState("Texas"))
	assert.Equal(t, "DC", normalizeState("District of Columbia"))
	assert.Equal(t, "PR", normalizeState("puerto rico"))
	assert.Equal(t, "CA", normalizeState("  CA  "))
	assert.Equal(t, "", normalizeState("ZZ"))
	assert.Equal(t, "", normalizeState("Atlantis"))
	assert.Equal(t, "", normalizeState(""))
}

func TestNormalizeZip(t *testing.T) {
	assert.Equal(t, "78701", normalizeZip("78701"))
	assert.Equal(t, "78701-1234", normalizeZip("787011234"))
	assert.Equal(t, "78701-1234", normalizeZip("78701-1234"))
	assert.Equal(t, "78701", normalizeZip("78701-12345"))
	assert.Equal(t, "", normalizeZip("787"))
	assert.Equal(t, "", normalizeZip("abc"))
	assert.Equal(t, "", normalizeZip(""))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://example.org", canonicalURL("example.org"))
	assert.Equal(t, "https://example.org", canonicalURL("https://example.org"))
	assert.Equal(t, "http://example.org", canonicalURL("http://example.org"))
	assert.Equal(t, "ftp://example.org/f.csv", canonicalURL("ftp://example.org/f.csv"))
	assert.Equal(t, "", canonicalURL("  "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "info@example.org", normalizeEmail("Info@Example.org "))
	assert.Equal(t, "a.b+c@sub.example.co", normalizeEmail("a.b+c@sub.example.co"))
	assert.Equal(t, "", normalizeEmail("not-an-email"))
	assert.Equal(t, "", normalizeEmail("missing@tld"))
	assert.Equal(t, "", normalizeEmail("two words@example.org"))
	assert.Equal(t, "", normalizeEmail(""))
}

func TestNormalizeCategories(t *testing.T) {
	got := normalizeCategories([]string{"Housing", "HOUSING", "unicorns", "legal", ""})
	assert.Equal(t, []string{"housing", "legal"}, got)

	assert.Nil(t, normalizeCategories(nil))
	assert.Nil(t, normalizeCategories([]string{"unicorns"}))
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "mental-health", normalizeTag("Mental Health"))
	assert.Equal(t, "ptsd-support", normalizeTag("PTSD -- Support"))
	assert.Equal(t, "vets", normalizeTag("  vets!  "))
	assert.Equal(t, "", normalizeTag("a"))
	assert.Equal(t, "", normalizeTag("--"))
	assert.Equal(t, "", normalizeTag(""))
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{"Housing", "housing", "PTSD Support", "x"})
	assert.Equal(t, []string{"housing", "ptsd-support"}, got)
}

func TestNormalizeStates(t *testing.T) {
	got := normalizeStates([]string{"tx", "Texas", "California", "ZZ"})
	assert.Equal(t, []string{"TX", "CA"}, got)
}
