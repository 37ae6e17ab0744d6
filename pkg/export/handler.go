package export

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/kidsbilling/adjustments/internal/rest"
	"github.com/kidsbilling/adjustments/internal/utils"
	"github.com/kidsbilling/adjustments/pkg/access"
	log "github.com/sirupsen/logrus"
)

const allCentersFilePrefix = "AllCenters"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Handler struct {
	rows  RowsProvider
	xlsx  Renderer
	csv   Renderer
	clock utils.Clock
}

func NewHandler(rows RowsProvider, xlsx Renderer, csv Renderer, clock utils.Clock) *Handler {
	return &Handler{rows: rows, xlsx: xlsx, csv: csv, clock: clock}
}

// Download sends the caller's visible rows as a spreadsheet attachment, or as CSV when the
// client asks for text/csv.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	log.Trace("Exporting adjustments")

	acc, err := access.Current(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not logged in", "")
		return
	}
	query := r.URL.Query()
	if query.Has("selected_center") {
		acc = acc.WithOverride(query.Get("selected_center"))
	}

	rows, err := h.rows.Visible(r.Context(), acc)
	if err != nil {
		log.Errorf("failed to load rows for export: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Storage unavailable", "")
		return
	}

	renderer := h.xlsx
	if strings.Contains(r.Header.Get("Accept"), "text/csv") {
		renderer = h.csv
	}
	body, err := renderer.Render(rows)
	if err != nil {
		if errors.Is(err, ErrEmptyExport) {
			rest.WriteError(w, http.StatusNotFound, "No data available.", "")
			return
		}
		log.Errorf("failed to render export: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := FileName(acc, h.clock, renderer.Extension())
	log.Debugf("exporting %d rows as %s", len(rows), filename)
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}

// FileName builds "<center>_data_<YYYYMMDD_HHMMSS>.<ext>", using AllCenters for an
// unrestricted administrator.
func FileName(acc access.Context, clock utils.Clock, extension string) string {
	prefix := allCentersFilePrefix
	if !acc.Unrestricted() {
		prefix = strings.Trim(unsafeFileChars.ReplaceAllString(acc.EffectiveCenter(), "_"), "_")
	}
	return fmt.Sprintf("%s_data_%s.%s", prefix, clock.Now().Format(utils.FileStampLayout), extension)
}
