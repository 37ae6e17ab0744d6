package adjustment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kidsbilling/adjustments/internal/rest"
	"github.com/kidsbilling/adjustments/pkg/access"
	"github.com/kidsbilling/adjustments/pkg/directory"
	log "github.com/sirupsen/logrus"
)

// Form keys selecting the table operation.
const (
	FormAddRowMode     = "add_row_mode"
	FormEditRowIdx     = "edit_row_idx"
	FormDeleteRowIdx   = "delete_row_idx"
	FormSaveAdd        = "save_add"
	FormSaveEdit       = "save_edit"
	FormRowIdx         = "row_idx"
	FormCancelAction   = "cancel_action"
	FormSelectedCenter = "selected_center"
)

type RecordDTO struct {
	UID                string `json:"uid"`
	Timestamp          string `json:"timestamp"`
	CenterName         string `json:"centerName"`
	ChildName          string `json:"childName"`
	AdjustmentAmount   string `json:"adjustmentAmount"`
	Note               string `json:"note"`
	PullingInstruction string `json:"pullingInstruction"`
	PullingCategory    string `json:"pullingCategory"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	Recurring          string `json:"recurring"`
	ChildStatus        string `json:"childStatus"`
	FamilyStatus       string `json:"familyStatus"`
	BillingCycle       string `json:"billingCycle"`
}

type ViewDTO struct {
	Columns          []string                              `json:"columns"`
	Rows             []RecordDTO                           `json:"rows"`
	Mode             Mode                                  `json:"mode"`
	EditIdx          *int                                  `json:"editIdx"`
	Draft            *RecordDTO                            `json:"draft,omitempty"`
	Message          string                                `json:"message,omitempty"`
	Centers          []string                              `json:"centers"`
	Center           string                                `json:"center"`
	ChildrenByCenter map[string][]string                   `json:"centerChildren"`
	ChildDetails     map[string]map[string]directory.Entry `json:"childDetails"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Table serves the adjustment table. A POST carries one operation discriminator; an
// administrator's selected_center applies to every request so that row indices always
// refer to the same visible rows.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	log.Trace("Handling table request")

	acc, err := access.Current(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not logged in", "")
		return
	}
	if err := r.ParseForm(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	form := r.Form
	if form.Has(FormSelectedCenter) {
		acc = acc.WithOverride(form.Get(FormSelectedCenter))
	}

	var view View
	switch {
	case r.Method != http.MethodPost:
		view, err = h.service.View(r.Context(), acc)
	case form.Has(FormAddRowMode):
		view, err = h.service.BeginAdd(r.Context(), acc)
	case form.Has(FormEditRowIdx):
		idx, ok := parseIndex(w, form, FormEditRowIdx)
		if !ok {
			return
		}
		view, err = h.service.BeginEdit(r.Context(), acc, idx)
	case form.Has(FormDeleteRowIdx):
		idx, ok := parseIndex(w, form, FormDeleteRowIdx)
		if !ok {
			return
		}
		view, err = h.service.Delete(r.Context(), acc, idx)
	case form.Has(FormSaveAdd):
		view, err = h.service.SaveAdd(r.Context(), acc, recordFromForm(form))
	case form.Has(FormSaveEdit):
		idx, ok := parseIndex(w, form, FormRowIdx)
		if !ok {
			return
		}
		view, err = h.service.SaveEdit(r.Context(), acc, idx, recordFromForm(form))
	default:
		// cancel_action and a bare center selection both fall back to the plain view
		view, err = h.service.View(r.Context(), acc)
	}

	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(viewToDTO(view)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIndex(w http.ResponseWriter, form url.Values, key string) (int, bool) {
	idx, err := strconv.Atoi(form.Get(key))
	if err != nil {
		log.Debugf("invalid %s: %q", key, form.Get(key))
		rest.WriteError(w, http.StatusBadRequest, "Invalid row index", key+" must be an integer")
		return 0, false
	}
	return idx, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var storageErr *StorageError
	switch {
	case errors.Is(err, ErrRowNotFound):
		log.Debugf("row not found: %v", err)
		rest.WriteError(w, http.StatusNotFound, "Row not found.", "")
	case errors.As(err, &storageErr):
		log.Errorf("storage failure: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Storage unavailable", storageErr.Op)
	default:
		log.Errorf("table request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func recordFromForm(form url.Values) Record {
	return FromValues(form.Get)
}

func RecordToDTO(r Record) RecordDTO {
	return RecordDTO{
		UID:                r.UID,
		Timestamp:          r.Timestamp,
		CenterName:         r.CenterName,
		ChildName:          r.ChildName,
		AdjustmentAmount:   r.AdjustmentAmount,
		Note:               r.Note,
		PullingInstruction: r.PullingInstruction,
		PullingCategory:    r.PullingCategory,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Recurring:          r.Recurring,
		ChildStatus:        r.ChildStatus,
		FamilyStatus:       r.FamilyStatus,
		BillingCycle:       r.BillingCycle,
	}
}

func viewToDTO(v View) ViewDTO {
	rows := make([]RecordDTO, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, RecordToDTO(r))
	}
	dto := ViewDTO{
		Columns:          Columns,
		Rows:             rows,
		Mode:             v.Mode,
		EditIdx:          v.EditIdx,
		Message:          v.Message,
		Centers:          v.Centers,
		Center:           v.Center,
		ChildrenByCenter: v.ChildrenByCenter,
		ChildDetails:     v.ChildDetails,
	}
	if v.Draft != nil {
		draft := RecordToDTO(*v.Draft)
		dto.Draft = &draft
	}
	return dto
}
