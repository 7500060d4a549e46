package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/http/middleware"
	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/usecase"
)

type ErrorResponse struct {
	Error  string                    `json:"error"`
	Code   string                    `json:"code,omitempty"`
	Fields []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeUseCaseError maps the use case taxonomy onto status codes.
func writeUseCaseError(w http.ResponseWriter, err error, op string) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusUnprocessableEntity
		switch de.Code {
		case usecase.CodeValidation, usecase.CodeUnknownChannel:
			status = http.StatusBadRequest
		case usecase.CodeClientNotFound, usecase.CodeScriptNotFound, usecase.CodeTemplateMissing:
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse{Error: de.Message, Code: de.Code, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		if entity.IsStoreWriteError(err) {
			middleware.RecordStoreWriteError(op)
		}
		logger.Log.WithError(err).WithField("op", op).Error("❌ request failed")
		status := http.StatusBadGateway
		if te.Code == usecase.CodeStoreRead {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, ErrorResponse{Error: te.Message, Code: te.Code})
		return
	}

	logger.Log.WithError(err).WithField("op", op).Error("❌ unexpected error")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
