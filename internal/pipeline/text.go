package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// stateNames maps lowercase full state/territory names to their 2-letter
// codes. Includes DC and the inhabited territories.
var stateNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
	"puerto rico": "PR", "guam": "GU", "american samoa": "AS",
	"u.s. virgin islands": "VI", "virgin islands": "VI",
	"northern mariana islands": "MP",
}

// stateCodes is the set of valid 2-letter codes, derived from stateNames.
var stateCodes = func() map[string]bool {
	m := make(map[string]bool, len(stateNames))
	for _, code := range stateNames {
		m[code] = true
	}
	return m
}()

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	nonDigit    = regexp.MustCompile(`\D`)
	emailRe     = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	tagDisallow = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns  = regexp.MustCompile(`-{2,}`)
)

// cleanText collapses whitespace runs and strips non-printable control
// characters, keeping newlines and tabs as word boundaries.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := spaceRuns.ReplaceAllString(b.String(), " ")
	out = newlineRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// formatPhone formats 10-digit North American numbers (or 11 digits with
// a leading 1) as (XXX) XXX-XXXX. Anything else is returned trimmed and
// unchanged; ambiguous input never gets fabricated formatting.
func formatPhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	digits := nonDigit.ReplaceAllString(trimmed, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return trimmed
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// normalizeState resolves a 2-letter code or a full state/territory name
// to a validated uppercase code. Unrecognized input resolves to "",
// never a guess.
func normalizeState(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if len(s) == 2 {
		code := strings.ToUpper(s)
		if stateCodes[code] {
			return code
		}
		return ""
	}
	if code, ok := stateNames[strings.ToLower(s)]; ok {
		return code
	}
	return ""
}

// normalizeZip keeps digits only: 5 pass through, 9 format as ZIP+4,
// more than 9 truncate to the first 5, anything else is dropped.
func normalizeZip(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 5:
		return digits
	case len(digits) == 9:
		return digits[:5] + "-" + digits[5:]
	case len(digits) > 9:
		return digits[:5]
	default:
		return ""
	}
}

// canonicalURL prefixes https:// when no scheme is present. Always
// returns a best-effort string for required URL fields.
func canonicalURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	return s
}

// normalizeEmail lowercases and validates against a conservative
// RFC-lite pattern. Invalid input becomes "" rather than rejecting the
// whole record.
func normalizeEmail(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || !emailRe.MatchString(s) {
		return ""
	}
	return s
}

// normalizeCategories intersects the input with the fixed taxonomy,
// case-insensitively, dropping anything unrecognized.
func normalizeCategories(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, c := range raw {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] || !model.ValidCategory(c) {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// normalizeTag lowercases a tag, replaces disallowed characters with
// hyphens, and collapses hyphen runs. Returns "" for tags shorter than
// two characters.
func normalizeTag(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = tagDisallow.ReplaceAllString(t, "-")
	t = hyphenRuns.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if len(t) < 2 {
		return ""
	}
	return t
}

// normalizeTags applies normalizeTag to each input and deduplicates.
func normalizeTags(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, t := range raw {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// normalizeStates validates and deduplicates a state-code list.
func normalizeStates(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		code := normalizeState(s)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
