package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/detail"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/nav"
	"github.com/JonMunkholm/fmcsa/internal/web/templates"
)

// handleDetail renders one record. Not-found and load failures are pages of
// their own with the matching status code.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	route := nav.Parse(r.URL.EscapedPath())
	if route.Kind != nav.Detail {
		s.handleListing(w, r)
		return
	}

	logger := logging.WithFields(r.Context(), "id", route.ID)

	var (
		view   detail.View
		msg    core.UserMessage
		status = http.StatusOK
	)

	snap, err := s.snapshot(r)
	switch {
	case err != nil:
		view = detail.Failure(route.ID, err)
		msg = core.MapError(err)
		status = statusFor(err)
		logger.Error("detail load failed", "error", err, "code", msg.Code)
	default:
		view = detail.Build(snap.Records, route.ID, s.layout)
		if view.Status == detail.NotFound {
			msg = core.MapError(core.ErrRecordNotFound)
			status = http.StatusNotFound
			logger.Debug("record not found")
		}
	}

	if wantsData(r) {
		if view.Status == detail.Ready {
			rec, _ := snap.Find(route.ID)
			s.respondData(w, r, status, newRecordResponse(snap, rec, view))
			return
		}
		if err == nil {
			err = fmt.Errorf("%w: %s", core.ErrRecordNotFound, route.ID)
		}
		s.respondError(w, r, err, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.DetailPage(s.layout.Title, view, msg).Render(r.Context(), w); err != nil {
		logger.Error("render detail", "error", err)
	}
}
