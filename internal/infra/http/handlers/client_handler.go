package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/export"
	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/projection"
	"github.com/xavierca1/clientbook/internal/usecase"
)

type ClientView interface {
	View(c projection.Criteria) projection.View
}

type ClientReader interface {
	Get(ctx context.Context, id string) (*entity.Client, error)
}

type ClientHandler struct {
	view     ClientView
	reader   ClientReader
	create   *usecase.CreateClientUseCase
	update   *usecase.UpdateClientUseCase
	payment  *usecase.RecordPaymentUseCase
	remove   *usecase.DeleteClientUseCase
	location *time.Location
	clock    func() time.Time
}

func NewClientHandler(
	view ClientView,
	reader ClientReader,
	create *usecase.CreateClientUseCase,
	update *usecase.UpdateClientUseCase,
	payment *usecase.RecordPaymentUseCase,
	remove *usecase.DeleteClientUseCase,
) *ClientHandler {
	return &ClientHandler{
		view:     view,
		reader:   reader,
		create:   create,
		update:   update,
		payment:  payment,
		remove:   remove,
		location: time.Local,
		clock:    time.Now,
	}
}

// clientJSON adds the derived amounts to the wire shape.
type clientJSON struct {
	entity.Client
	Response        string          `json:"response"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

func toJSON(c entity.Client) clientJSON {
	return clientJSON{
		Client:          c,
		Response:        c.ClientResponse.Label(),
		PaidAmount:      c.PaidAmount(),
		RemainingAmount: c.RemainingAmount(),
	}
}

type listResponse struct {
	State         projection.State    `json:"state"`
	Error         string              `json:"error,omitempty"`
	Stats         projection.Stats    `json:"stats"`
	Criteria      projection.Criteria `json:"criteria"`
	Clients       []clientJSON        `json:"clients"`
	Empty         bool                `json:"empty"`
	FilteredEmpty bool                `json:"filtered_empty"`
}

// List serves the live projection. A failed subscription still returns the
// last good data, with the error alongside.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := projection.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := h.view.View(criteria)

	resp := listResponse{
		State:         v.State,
		Stats:         v.Stats,
		Criteria:      v.Criteria,
		Clients:       make([]clientJSON, 0, len(v.Clients)),
		Empty:         v.Empty,
		FilteredEmpty: v.FilteredEmpty,
	}
	if v.Err != nil {
		resp.Error = v.Err.Error()
	}
	for _, c := range v.Clients {
		resp.Clients = append(resp.Clients, toJSON(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	criteria, err := projection.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := h.view.View(criteria)
	if v.State == projection.StateLoading || v.State == projection.StateUninitialized {
		writeError(w, http.StatusServiceUnavailable, "clients are still loading")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(h.clock())))
	if err := export.WriteCSV(w, v.Clients, h.location); err != nil {
		logger.Log.WithError(err).Error("❌ export failed mid-stream")
	}
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.reader.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, mapReadError(err), "get")
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func mapReadError(err error) error {
	if errors.Is(err, entity.ErrClientNotFound) {
		return &usecase.DomainError{Code: usecase.CodeClientNotFound, Message: "client not found"}
	}
	return &usecase.TechnicalError{Code: usecase.CodeStoreRead, Message: "read client failed", Err: err}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateClientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.create.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err, "add")
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateClientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.update.Execute(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		writeUseCaseError(w, err, "update")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.SetStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.update.SetStatus(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		writeUseCaseError(w, err, "set-status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var input usecase.RecordPaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.payment.Execute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err, "append-payment")
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.remove.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err, "remove")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
