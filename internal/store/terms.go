package store

import (
	"fmt"
	"time"

	"github.com/docmentor/tread/internal/dictionary"
)

// UpsertTerms inserts or updates dictionary terms by surface form.
// Surfaces are folded before storage so lookups stay case-insensitive.
func (db *DB) UpsertTerms(terms []dictionary.Term) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO terms (surface, canonical, weight, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(surface) DO UPDATE SET
			canonical  = excluded.canonical,
			weight     = excluded.weight,
			category   = excluded.category,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	count := 0
	for _, t := range terms {
		surface := dictionary.Fold(t.Surface)
		if surface == "" {
			continue
		}
		canonical := t.Canonical
		if canonical == "" {
			canonical = surface
		}
		weight := t.Weight
		if weight <= 0 {
			weight = 1.0
		}
		if _, err := stmt.Exec(surface, canonical, weight, t.Category, now, now); err != nil {
			return 0, fmt.Errorf("upsert term %q: %w", surface, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// ListTerms returns all stored terms, optionally filtered by category,
// ordered by surface form.
func (db *DB) ListTerms(category string) ([]dictionary.Term, error) {
	query := "SELECT surface, canonical, weight, category FROM terms"
	args := []any{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY surface"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var terms []dictionary.Term
	for rows.Next() {
		var t dictionary.Term
		if err := rows.Scan(&t.Surface, &t.Canonical, &t.Weight, &t.Category); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// CountTerms returns the number of stored terms.
func (db *DB) CountTerms() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM terms").Scan(&n); err != nil {
		return 0, fmt.Errorf("count terms: %w", err)
	}
	return n, nil
}

// DeleteTerm removes a term by surface form. Returns false if the term
// did not exist.
func (db *DB) DeleteTerm(surface string) (bool, error) {
	res, err := db.Exec("DELETE FROM terms WHERE surface = ?", dictionary.Fold(surface))
	if err != nil {
		return false, fmt.Errorf("delete term: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// LoadDictionary builds the runtime dictionary: builtin terms first,
// stored terms layered on top so deployments can reweight or extend the
// defaults.
func (db *DB) LoadDictionary() (*dictionary.Dictionary, error) {
	stored, err := db.ListTerms("")
	if err != nil {
		return nil, err
	}
	return dictionary.New(append(dictionary.Builtin(), stored...)), nil
}
