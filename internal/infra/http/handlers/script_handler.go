package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/usecase"
)

type ScriptHandler struct {
	scripts *usecase.ScriptUseCase
}

func NewScriptHandler(scripts *usecase.ScriptUseCase) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

type scriptListResponse struct {
	Scripts []entity.Script `json:"scripts"`
	Empty   bool            `json:"empty"`
}

// List accepts ?q= (business type), ?language= and ?type=call|message|both.
func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scripts, err := h.scripts.List(r.Context(), usecase.ScriptQuery{
		Search:   q.Get("q"),
		Language: q.Get("language"),
		Kind:     q.Get("type"),
	})
	if err != nil {
		writeUseCaseError(w, err, "list-scripts")
		return
	}
	writeJSON(w, http.StatusOK, scriptListResponse{Scripts: scripts, Empty: len(scripts) == 0})
}

func (h *ScriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.scripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err, "get-script")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ScriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScriptInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s, err := h.scripts.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err, "add-script")
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScriptInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.scripts.Update(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		writeUseCaseError(w, err, "update-script")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.scripts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err, "remove-script")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
