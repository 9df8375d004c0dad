package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupFoldsSurface(t *testing.T) {
	d := New([]Term{{Surface: "Blood  Pressure", Weight: 1.5}})

	term, ok := d.Lookup("blood pressure")
	if !ok {
		t.Fatalf("folded surface not found")
	}
	if term.Weight != 1.5 {
		t.Errorf("weight = %v, want 1.5", term.Weight)
	}
	if term.Canonical != "blood pressure" {
		t.Errorf("canonical = %q, want folded surface", term.Canonical)
	}
}

func TestNewDefaultsWeight(t *testing.T) {
	d := New([]Term{{Surface: "fever"}})
	term, _ := d.Lookup("fever")
	if term.Weight != 1.0 {
		t.Errorf("weight = %v, want default 1.0", term.Weight)
	}
}

func TestMatchMaximalMunch(t *testing.T) {
	d := New([]Term{
		{Surface: "heart", Weight: 1.0},
		{Surface: "heart failure", Weight: 1.5},
		{Surface: "failure", Weight: 1.1},
	})

	matches := d.Match("Chronic heart failure confirmed")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	if matches[0].Term.Surface != "heart failure" {
		t.Errorf("matched %q, want the longer surface", matches[0].Term.Surface)
	}
	if got := "Chronic heart failure confirmed"[matches[0].Start:matches[0].End]; got != "heart failure" {
		t.Errorf("offsets cover %q, want %q", got, "heart failure")
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	d := New([]Term{{Surface: "bp", Weight: 1.5}})

	matches := d.Match("Patient BP 140/90")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Start != 8 || matches[0].End != 10 {
		t.Errorf("offsets = [%d,%d), want [8,10)", matches[0].Start, matches[0].End)
	}
}

func TestMatchNonOverlapping(t *testing.T) {
	d := New([]Term{
		{Surface: "blood pressure"},
		{Surface: "pressure"},
	})

	matches := d.Match("blood pressure pressure")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Term.Surface != "blood pressure" || matches[1].Term.Surface != "pressure" {
		t.Errorf("matches = %q, %q", matches[0].Term.Surface, matches[1].Term.Surface)
	}
	if matches[1].Start < matches[0].End {
		t.Errorf("matches overlap: %+v", matches)
	}
}

func TestMatchUnicode(t *testing.T) {
	d := New([]Term{{Surface: "Сердечная недостаточность", Weight: 1.5}})

	text := "Диагноз: сердечная недостаточность II степени"
	matches := d.Match(text)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	got := text[matches[0].Start:matches[0].End]
	if got != "сердечная недостаточность" {
		t.Errorf("offsets cover %q", got)
	}
}

func TestBuiltinLoads(t *testing.T) {
	d := New(Builtin())
	if d.Len() < 50 {
		t.Fatalf("builtin dictionary suspiciously small: %d terms", d.Len())
	}
	if _, ok := d.Lookup("blood pressure"); !ok {
		t.Errorf("builtin missing blood pressure")
	}
	if _, ok := d.Lookup("diabetes"); !ok {
		t.Errorf("builtin missing diabetes")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	content := `
[[term]]
surface = "tachycardia"
weight = 1.6
category = "symptoms"

[[term]]
surface = "sinus rhythm"
canonical = "normal sinus rhythm"
weight = 1.2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	terms, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Surface != "tachycardia" || terms[0].Weight != 1.6 {
		t.Errorf("terms[0] = %+v", terms[0])
	}
}

func TestLoadFileRejectsEmptySurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	if err := os.WriteFile(path, []byte("[[term]]\nweight = 1.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for empty surface")
	}
}
