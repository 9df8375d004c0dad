package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/docmentor/tread/internal/dictionary"
	"github.com/docmentor/tread/internal/document"
)

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Sections bool   `json:"sections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, `{"error":"text required"}`, http.StatusBadRequest)
		return
	}

	if req.Sections {
		secs := document.Split(req.Text)
		texts := make([]string, len(secs))
		for i, sec := range secs {
			texts[i] = sec.Text
		}
		results, err := s.engine.ProcessBatch(r.Context(), texts)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		type sectionJSON struct {
			Start  int `json:"start"`
			End    int `json:"end"`
			Result any `json:"result"`
		}
		out := make([]sectionJSON, len(secs))
		for i, sec := range secs {
			out[i] = sectionJSON{Start: sec.Start, End: sec.End, Result: results[i]}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sections": out,
			"count":    len(out),
		})
		return
	}

	result, err := s.engine.Process(r.Context(), req.Text)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"result":      result,
		"high_tokens": result.HighTokens(),
	})
}

func (s *Server) handleRouteBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Documents []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		http.Error(w, `{"error":"documents required"}`, http.StatusBadRequest)
		return
	}

	texts := make([]string, len(req.Documents))
	ids := make([]string, len(req.Documents))
	for i, d := range req.Documents {
		texts[i] = d.Text
		ids[i] = d.ID
		if ids[i] == "" {
			ids[i] = uuid.NewString()
		}
	}

	results, err := s.engine.ProcessBatch(r.Context(), texts)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	type docJSON struct {
		ID     string `json:"id"`
		Result any    `json:"result"`
	}
	out := make([]docJSON, len(results))
	for i, res := range results {
		out[i] = docJSON{ID: ids[i], Result: res}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": out,
		"count":     len(out),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"stats":         stats,
		"hit_rate":      stats.HitRate(),
		"cache_entries": s.engine.CacheLen(),
	})
}

func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
}

type termJSON struct {
	Surface   string  `json:"surface"`
	Canonical string  `json:"canonical,omitempty"`
	Weight    float64 `json:"weight"`
	Category  string  `json:"category,omitempty"`
}

func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := s.db.ListTerms(r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	out := make([]termJSON, len(terms))
	for i, t := range terms {
		out[i] = termJSON{t.Surface, t.Canonical, t.Weight, t.Category}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"terms": out,
		"count": len(out),
	})
}

func (s *Server) handleAddTerms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Terms []termJSON `json:"terms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if len(req.Terms) == 0 {
		http.Error(w, `{"error":"terms required"}`, http.StatusBadRequest)
		return
	}

	terms := make([]dictionary.Term, len(req.Terms))
	for i, t := range req.Terms {
		if t.Surface == "" {
			http.Error(w, `{"error":"term surface required"}`, http.StatusBadRequest)
			return
		}
		terms[i] = dictionary.Term{
			Surface:   t.Surface,
			Canonical: t.Canonical,
			Weight:    t.Weight,
			Category:  t.Category,
		}
	}

	n, err := s.db.UpsertTerms(terms)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	// New terms change routing, so the engine gets a fresh dictionary.
	dict, err := s.db.LoadDictionary()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	s.engine.SetDictionary(dict)

	total, err := s.db.CountTerms()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"upserted": n,
		"stored":   total,
	})
}
