package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/detail"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/table"
)

// SortJSON is one sort level in API responses.
type SortJSON struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

// RecordsResponse is one window of the sorted dataset.
type RecordsResponse struct {
	Version   string        `json:"version"`
	Total     int           `json:"total"`
	Page      int           `json:"page"` // 1-based
	PageSize  int           `json:"page_size"`
	PageCount int           `json:"page_count"`
	EmptyRows int           `json:"empty_rows"`
	Sort      []SortJSON    `json:"sort"`
	Records   []core.Record `json:"records"`
}

// SectionJSON is a detail section in API responses.
type SectionJSON struct {
	Title  string      `json:"title"`
	Fields []FieldJSON `json:"fields"`
}

// FieldJSON is one labelled detail value.
type FieldJSON struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Fallback bool   `json:"fallback,omitempty"`
}

// RecordResponse is a single record with its detail layout applied.
type RecordResponse struct {
	Version  string        `json:"version"`
	Record   core.Record   `json:"record"`
	Sections []SectionJSON `json:"sections"`
}

func newRecordResponse(snap *core.Snapshot, rec core.Record, v detail.View) RecordResponse {
	resp := RecordResponse{
		Version:  snap.Version.String(),
		Record:   rec,
		Sections: make([]SectionJSON, len(v.Sections)),
	}
	for i, s := range v.Sections {
		sec := SectionJSON{Title: s.Title, Fields: make([]FieldJSON, len(s.Items))}
		for j, it := range s.Items {
			sec.Fields[j] = FieldJSON{Key: it.Key, Label: it.Label, Value: it.Value, Fallback: it.Fallback}
		}
		resp.Sections[i] = sec
	}
	return resp
}

// handleAPIRecords returns the current window. The ETag is the snapshot
// version plus the view state, so unchanged data answers 304.
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	etag := fmt.Sprintf(`W/"%s-%s"`, snap.Version, st.Query().Encode())
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	vm := table.NewWithState(snap.Records, st)
	resp := RecordsResponse{
		Version:   snap.Version.String(),
		Total:     vm.TotalRows(),
		Page:      vm.Page() + 1,
		PageSize:  vm.PageSize(),
		PageCount: vm.PageCount(),
		EmptyRows: vm.EmptyRows(),
		Sort:      make([]SortJSON, len(st.Sorts)),
		Records:   vm.VisibleRows(),
	}
	for i, spec := range st.Sorts {
		resp.Sort[i] = SortJSON{Key: spec.Key, Dir: string(spec.Dir)}
	}

	s.respondData(w, r, http.StatusOK, resp)
}

// handleAPIRecord returns one record.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.snapshot(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	rec, ok := snap.Find(id)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrRecordNotFound, id), http.StatusNotFound)
		return
	}
	s.respondData(w, r, http.StatusOK, newRecordResponse(snap, rec, detail.FromRecord(rec, s.layout)))
}

// handleExport streams the whole dataset as CSV in the requested sort order.
// Columns are the required fields first, then every other field seen, sorted.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	header := exportHeader(snap.Records, s.layout.RequiredFields())
	rows := table.StableSort(snap.Records, table.Comparator(st.Sorts...))

	filename := fmt.Sprintf("fmcsa_records_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
		return
	}
	line := make([]string, len(header))
	for _, rec := range rows {
		for i, key := range header {
			line[i] = rec.Get(key)
		}
		if err := cw.Write(line); err != nil {
			logging.FromContext(r.Context()).Error("export write failed", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Error("export flush failed", "error", err)
	}
}

func exportHeader(records []core.Record, required []string) []string {
	seen := make(map[string]bool, len(required))
	header := make([]string, 0, len(required))
	for _, key := range required {
		if !seen[key] {
			seen[key] = true
			header = append(header, key)
		}
	}

	var extra []string
	for _, rec := range records {
		for key := range rec {
			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	slices.Sort(extra)
	return append(header, extra...)
}

// handleStatus reports the loader state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, r, http.StatusOK, s.data.Status())
}

// handleHealth is the liveness probe. It never triggers a load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.data.Status()
	s.respondData(w, r, http.StatusOK, map[string]string{
		"status": "ok",
		"data":   string(st.State),
	})
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, r, http.StatusNotFound, ErrorResponse{
		Error:   "not found",
		Message: "No such API endpoint",
		Code:    "REQ404",
	})
}

