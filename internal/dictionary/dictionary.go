// Package dictionary holds the medical term vocabulary and the
// measurement pattern rules used by the routing engine. A Dictionary is
// read-only after construction and safe for concurrent use.
package dictionary

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// Term is a single weighted dictionary entry. Surface forms are matched
// case-insensitively; multi-word surfaces match across collapsed
// whitespace.
type Term struct {
	Surface   string  `toml:"surface"`
	Canonical string  `toml:"canonical"`
	Weight    float64 `toml:"weight"`
	Category  string  `toml:"category"`
}

// TermMatch is an occurrence of a Term in a document. Offsets are byte
// offsets into the original text.
type TermMatch struct {
	Term  Term
	Start int
	End   int
}

// Dictionary maps folded surface forms to terms.
type Dictionary struct {
	terms    map[string]Term
	maxWords int
}

// New builds a Dictionary from a term list. Later entries override
// earlier ones with the same surface form, so callers can layer a custom
// set over Builtin().
func New(terms []Term) *Dictionary {
	d := &Dictionary{terms: make(map[string]Term, len(terms)), maxWords: 1}
	for _, t := range terms {
		key := Fold(t.Surface)
		if key == "" {
			continue
		}
		if t.Canonical == "" {
			t.Canonical = key
		}
		if t.Weight <= 0 {
			t.Weight = 1.0
		}
		d.terms[key] = t
		if n := strings.Count(key, " ") + 1; n > d.maxWords {
			d.maxWords = n
		}
	}
	return d
}

// Len returns the number of distinct surface forms.
func (d *Dictionary) Len() int { return len(d.terms) }

// Lookup returns the term for an already-folded surface form.
func (d *Dictionary) Lookup(folded string) (Term, bool) {
	t, ok := d.terms[folded]
	return t, ok
}

// Fold normalizes a surface form for lookup: lowercase, whitespace
// collapsed to single spaces.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// word is a letter/digit run in the source text. Hyphens joining two
// word characters stay inside the run ("сердечно-сосудистая").
type word struct {
	start, end int
	folded     string
}

func scanWords(text string) []word {
	var words []word
	start := -1
	runes := []rune(text)
	// byte offset tracking
	off := 0
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = off

	isWord := func(i int) bool {
		r := runes[i]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		if r == '-' && i > 0 && i+1 < len(runes) {
			return unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1])
		}
		return false
	}

	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && isWord(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, word{
				start:  offsets[start],
				end:    offsets[i],
				folded: strings.ToLower(string(runes[start:i])),
			})
			start = -1
		}
	}
	return words
}

// Match scans text for dictionary terms using maximal munch: at each
// word position the longest matching multi-word surface wins, and the
// scan resumes past it so matches never overlap.
func (d *Dictionary) Match(text string) []TermMatch {
	words := scanWords(text)
	var matches []TermMatch

	for i := 0; i < len(words); {
		matched := false
		max := d.maxWords
		if rest := len(words) - i; rest < max {
			max = rest
		}
		for n := max; n >= 1; n-- {
			parts := make([]string, n)
			for j := 0; j < n; j++ {
				parts[j] = words[i+j].folded
			}
			if t, ok := d.terms[strings.Join(parts, " ")]; ok {
				matches = append(matches, TermMatch{
					Term:  t,
					Start: words[i].start,
					End:   words[i+n-1].end,
				})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return matches
}

// termFile is the on-disk TOML term list format.
type termFile struct {
	Term []Term `toml:"term"`
}

// LoadFile reads a TOML term file ([[term]] tables).
func LoadFile(path string) ([]Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term file: %w", err)
	}
	var tf termFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("decode term file %s: %w", path, err)
	}
	for i, t := range tf.Term {
		if strings.TrimSpace(t.Surface) == "" {
			return nil, fmt.Errorf("term file %s: entry %d has empty surface", path, i)
		}
	}
	return tf.Term, nil
}
