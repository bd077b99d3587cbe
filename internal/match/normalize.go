package match

import (
	"strings"
	"unicode"
)

// strippedSuffixes are dropped by NormalizeIdentWithSuffixStrip, longest first.
var strippedSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent lower-cases an identifier and drops separators, so that
// "customer_id", "customerId" and "CustomerID" all become "customerid".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip normalizes s and strips one common suffix
// token (id, ids, at, utc, timestamp) when something remains.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range strippedSuffixes {
		if len(normalized) > len(suffix) && strings.HasSuffix(normalized, suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// TokenizeIdent splits an identifier into lowercase tokens.
//   - "OrderID" -> ["order", "id"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "price_cents" -> ["price", "cents"]
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower-to-upper transition ("orderID" before 'I') or
// the end of an acronym ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
