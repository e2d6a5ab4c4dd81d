package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/service"
)

// ExportTrip handles GET /trips/{id}/export.
// ?format=csv (default), pdf or json selects the file type; the response is
// sent as an attachment.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}

	out, err := s.export.Export(r.Context(), auth.IdentityFrom(r.Context()), id, format)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}
