package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/table"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
)

// defaultState is the view a bare "/" shows.
func (s *Server) defaultState() table.State {
	st := table.DefaultState()
	if table.IsAllowedPageSize(s.cfg.View.PageSize) {
		st.Size = s.cfg.View.PageSize
	}
	return st
}

// parseState reads sort and paging from the query. Sort keys that are not
// listing columns are dropped; if none remain the default sort applies.
func (s *Server) parseState(r *http.Request) (table.State, error) {
	st, err := table.ParseState(r.URL.Query(), s.defaultState())
	if err != nil {
		return st, err
	}
	return st.Restrict(s.layout.IsColumn, table.DefaultSort), nil
}

// snapshot returns the shared dataset; ?refresh=1 forces a reload first.
func (s *Server) snapshot(r *http.Request) (*core.Snapshot, error) {
	if r.URL.Query().Get("refresh") == "1" {
		logging.FromContext(r.Context()).Info("dataset reload requested")
		return s.data.Reload(r.Context())
	}
	return s.data.Snapshot(r.Context())
}

// wantsMsgpack reports whether the client asked for MessagePack.
func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, contentTypeMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// respondData writes v as MessagePack when the client asked for it and as
// JSON otherwise. Encoding errors are logged since headers are already sent.
func (s *Server) respondData(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Add("Vary", "Accept")

	var err error
	if wantsMsgpack(r) {
		w.Header().Set("Content-Type", contentTypeMsgpack)
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		err = enc.Encode(v)
	} else {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(status)
		err = json.NewEncoder(w).Encode(v)
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("encode response", "error", err)
	}
}
