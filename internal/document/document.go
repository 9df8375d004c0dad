// Package document splits raw text into sections for batch routing.
// Clinical documents arrive as whole files or concatenated pages;
// routing them section by section keeps importance scores local to
// the note that produced them.
package document

import "strings"

// Section is a contiguous slice of the source document.
type Section struct {
	Text  string
	Start int // byte offset into the source
	End   int
}

// Split breaks text into sections on blank lines and form-feed page
// breaks. Section offsets refer to the original text; leading and
// trailing whitespace inside a section is preserved so that routing
// offsets stay valid. Empty sections are dropped.
func Split(text string) []Section {
	if text == "" {
		return nil
	}

	var sections []Section
	start := 0
	i := 0
	for i < len(text) {
		if text[i] == '\f' {
			sections = appendSection(sections, text, start, i)
			i++
			start = i
			continue
		}
		if text[i] == '\n' && isBlankLineAt(text, i+1) {
			end := i
			// consume the newline plus the blank line(s)
			i++
			for i < len(text) {
				j := skipBlankLine(text, i)
				if j == i {
					break
				}
				i = j
			}
			sections = appendSection(sections, text, start, end)
			start = i
			continue
		}
		i++
	}
	sections = appendSection(sections, text, start, len(text))
	return sections
}

func appendSection(sections []Section, text string, start, end int) []Section {
	if start >= end {
		return sections
	}
	s := text[start:end]
	if strings.TrimSpace(s) == "" {
		return sections
	}
	return append(sections, Section{Text: s, Start: start, End: end})
}

// isBlankLineAt reports whether the line starting at i contains only
// spaces and tabs before its terminating newline or EOF.
func isBlankLineAt(text string, i int) bool {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\r':
			i++
		case '\n', '\f':
			return true
		default:
			return false
		}
	}
	return true
}

// skipBlankLine returns the index just past the blank line starting at
// i, or i unchanged if the line is not blank.
func skipBlankLine(text string, i int) int {
	j := i
	for j < len(text) {
		switch text[j] {
		case ' ', '\t', '\r':
			j++
		case '\n':
			return j + 1
		default:
			return i
		}
	}
	return j
}
