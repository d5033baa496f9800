package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/spatial-dedupe/internal/match"
)

// Match is the JSON shape of one match record. Field names follow the
// report columns.
type Match struct {
	SurrogateKey   string `json:"surrogate_key"`
	LeftObjectID   int64  `json:"left_objectID"`
	RightObjectID  int64  `json:"right_objectID"`
	LeftText       string `json:"left_text"`
	RightText      string `json:"right_text"`
	LeftClass      string `json:"left_class"`
	RightClass     string `json:"right_class"`
	LeftPK         string `json:"left_pk"`
	RightPK        string `json:"right_pk"`
	LeftX          string `json:"left_x"`
	LeftY          string `json:"left_y"`
	RightX         string `json:"right_x"`
	RightY         string `json:"right_y"`
	Ratio          int    `json:"fw_ratio"`
	PartialRatio   int    `json:"fw_partial_ratio"`
	TokenSortRatio int    `json:"fw_token_sort_ratio"`
	TokenSetRatio  int    `json:"fw_token_set_ratio"`
}

func toMatch(rec match.Record) Match {
	return Match{
		SurrogateKey:   rec.SurrogateKey,
		LeftObjectID:   rec.LeftObjectID,
		RightObjectID:  rec.RightObjectID,
		LeftText:       rec.LeftText,
		RightText:      rec.RightText,
		LeftClass:      rec.LeftClass,
		RightClass:     rec.RightClass,
		LeftPK:         rec.LeftPK,
		RightPK:        rec.RightPK,
		LeftX:          rec.LeftX,
		LeftY:          rec.LeftY,
		RightX:         rec.RightX,
		RightY:         rec.RightY,
		Ratio:          rec.Ratio,
		PartialRatio:   rec.PartialRatio,
		TokenSortRatio: rec.TokenSortRatio,
		TokenSetRatio:  rec.TokenSetRatio,
	}
}

// HealthResponse reports server liveness and the size of the loaded report.
type HealthResponse struct {
	Status  string `json:"status"`
	Matches int    `json:"matches"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "ok", Matches: len(s.records)}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ScoreStats summarises one similarity metric across the report.
type ScoreStats struct {
	Mean float64 `json:"mean"`
	Min  int     `json:"min"`
	Max  int     `json:"max"`
}

// StatsResponse represents overall report statistics.
type StatsResponse struct {
	TotalMatches   int                   `json:"total_matches"`
	IdenticalPairs int                   `json:"identical_pairs"`
	ByScore        map[string]ScoreStats `json:"by_score"`
	ByRatioBand    map[string]int        `json:"by_ratio_band"`
	ByClassPair    map[string]int        `json:"by_class_pair"`
}

// handleStats returns aggregate statistics over the loaded report.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{
		TotalMatches: len(s.records),
		ByScore:      make(map[string]ScoreStats),
		ByRatioBand:  make(map[string]int),
		ByClassPair:  make(map[string]int),
	}

	metrics := map[string]func(match.Record) int{
		"fw_ratio":            func(r match.Record) int { return r.Ratio },
		"fw_partial_ratio":    func(r match.Record) int { return r.PartialRatio },
		"fw_token_sort_ratio": func(r match.Record) int { return r.TokenSortRatio },
		"fw_token_set_ratio":  func(r match.Record) int { return r.TokenSetRatio },
	}
	if len(s.records) > 0 {
		for name, get := range metrics {
			sum := 0
			lo, hi := 101, -1
			for _, rec := range s.records {
				v := get(rec)
				sum += v
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			stats.ByScore[name] = ScoreStats{
				Mean: float64(sum) / float64(len(s.records)),
				Min:  lo,
				Max:  hi,
			}
		}
	}

	for _, rec := range s.records {
		stats.ByRatioBand[ratioBand(rec.Ratio)]++
		stats.ByClassPair[classPair(rec.LeftClass, rec.RightClass)]++
		if rec.Ratio == 100 && rec.PartialRatio == 100 &&
			rec.TokenSortRatio == 100 && rec.TokenSetRatio == 100 {
			stats.IdenticalPairs++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// MatchesListResponse represents a filtered, paginated list of matches.
type MatchesListResponse struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// handleListMatches returns matches filtered by minimum scores and class.
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := parseIntParam(query.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage := parseIntParam(query.Get("per_page"), 50)
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 1000 {
		perPage = 1000
	}

	minRatio := parseIntParam(query.Get("min_ratio"), 0)
	minPartial := parseIntParam(query.Get("min_partial_ratio"), 0)
	minTokenSort := parseIntParam(query.Get("min_token_sort_ratio"), 0)
	minTokenSet := parseIntParam(query.Get("min_token_set_ratio"), 0)
	class := query.Get("class")

	var filtered []Match
	for _, rec := range s.records {
		if rec.Ratio < minRatio || rec.PartialRatio < minPartial ||
			rec.TokenSortRatio < minTokenSort || rec.TokenSetRatio < minTokenSet {
			continue
		}
		if class != "" && rec.LeftClass != class && rec.RightClass != class {
			continue
		}
		filtered = append(filtered, toMatch(rec))
	}

	offset := (page - 1) * perPage
	pageMatches := []Match{}
	if offset < len(filtered) {
		end := offset + perPage
		if end > len(filtered) {
			end = len(filtered)
		}
		pageMatches = filtered[offset:end]
	}

	response := MatchesListResponse{
		Matches: pageMatches,
		Total:   len(filtered),
		Page:    page,
		PerPage: perPage,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetMatch returns a single match by surrogate key.
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rec, ok := s.byKey[vars["key"]]
	if !ok {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMatch(rec))
}

func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultVal
}

func ratioBand(v int) string {
	switch {
	case v == 100:
		return "100"
	case v >= 90:
		return "90-99"
	case v >= 75:
		return "75-89"
	case v >= 50:
		return "50-74"
	case v >= 25:
		return "25-49"
	default:
		return "0-24"
	}
}

// classPair folds the two class values into one unordered key.
func classPair(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
