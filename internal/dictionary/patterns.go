package dictionary

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Measurement is a structured value extracted from text: a vitals pair
// ("140/90"), a unit-suffixed value ("7.2 mmol/L"), or a bare reading
// ("95"). Offsets are byte offsets into the original text.
type Measurement struct {
	Value    string
	Unit     string
	Raw      string
	Category string
	Start    int
	End      int
}

// Measurement categories, following the original pattern groups.
const (
	CategoryPressure = "pressure"
	CategoryDosage   = "dosage"
	CategoryLab      = "lab_value"
	CategoryValue    = "value"
)

// unitCategories classifies well-known units. Units outside this map
// still match (the vocabulary is configuration-supplied) and fall back
// to CategoryValue.
var unitCategories = map[string]string{
	"mmhg":   CategoryPressure,
	"mg":     CategoryDosage,
	"g":      CategoryDosage,
	"mcg":    CategoryDosage,
	"ml":     CategoryDosage,
	"mg/dl":  CategoryLab,
	"mmol/l": CategoryLab,
	"meq/l":  CategoryLab,
}

// MeasurementMatcher extracts measurements for a fixed unit vocabulary.
type MeasurementMatcher struct {
	pairRe  *regexp.Regexp
	valueRe *regexp.Regexp
}

// NewMeasurementMatcher compiles patterns over the given unit
// vocabulary. Longer units are tried first so "mg/dL" is never captured
// as "mg".
func NewMeasurementMatcher(units []string) *MeasurementMatcher {
	sorted := make([]string, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted))
	for _, u := range sorted {
		if u == "" {
			continue
		}
		alt := regexp.QuoteMeta(u)
		// Units ending in a word character need a boundary so "mg"
		// never matches inside "mgx".
		if r := rune(u[len(u)-1]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			alt += `\b`
		}
		alts = append(alts, alt)
	}
	unitAlt := strings.Join(alts, "|")

	pair := `\b(\d+/\d+)`
	value := `\b(\d+(?:\.\d+)?)`
	if unitAlt != "" {
		pair += `(?:\s*(` + unitAlt + `))?`
		value += `(?:\s*(` + unitAlt + `))?`
	} else {
		pair += `()?`
		value += `()?`
	}

	return &MeasurementMatcher{
		pairRe:  regexp.MustCompile(pair),
		valueRe: regexp.MustCompile(value),
	}
}

// Extract returns all measurements in text, longest match first at each
// position: "140/90" is one pressure pair, never "140" and "90".
// Results are ordered by offset and never overlap.
func (m *MeasurementMatcher) Extract(text string) []Measurement {
	var candidates []Measurement
	for _, idx := range m.pairRe.FindAllStringSubmatchIndex(text, -1) {
		candidates = append(candidates, m.build(text, idx, true))
	}
	for _, idx := range m.valueRe.FindAllStringSubmatchIndex(text, -1) {
		candidates = append(candidates, m.build(text, idx, false))
	}

	// Keep the longest candidate at each position; pairs were collected
	// first, so they win length ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End-candidates[i].Start > candidates[j].End-candidates[j].Start
	})

	var out []Measurement
	lastEnd := -1
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue
		}
		out = append(out, c)
		lastEnd = c.End
	}
	return out
}

func (m *MeasurementMatcher) build(text string, idx []int, pair bool) Measurement {
	raw := text[idx[0]:idx[1]]
	value := text[idx[2]:idx[3]]
	unit := ""
	if len(idx) >= 6 && idx[4] >= 0 {
		unit = text[idx[4]:idx[5]]
	}

	category := CategoryValue
	if pair {
		category = CategoryPressure
	} else if unit != "" {
		if c, ok := unitCategories[strings.ToLower(unit)]; ok {
			category = c
		}
	}

	return Measurement{
		Value:    value,
		Unit:     unit,
		Raw:      raw,
		Category: category,
		Start:    idx[0],
		End:      idx[1],
	}
}
