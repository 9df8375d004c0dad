package tread

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into whitespace-delimited tokens with byte
// offsets into the original text. Invalid UTF-8 is rejected so the
// caller can fall back to fail-open routing.
func Tokenize(text string) ([]Token, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid utf-8", ErrMalformedInput)
	}

	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Start: start, End: len(text)})
	}
	return tokens, nil
}

// Normalize produces the canonical form of text used for cache
// fingerprints: NFC, case-folded, whitespace collapsed. Reported offsets
// always refer to the original text, never the normalized form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(text))), " ")
}

// Fingerprint addresses a routing decision: stable hash over the
// normalized text and the config version, so a config change never
// silently reuses a prior decision.
func Fingerprint(text, configVersion string) string {
	h := sha256.New()
	h.Write([]byte(Normalize(text)))
	h.Write([]byte{0})
	h.Write([]byte(configVersion))
	return hex.EncodeToString(h.Sum(nil))
}
