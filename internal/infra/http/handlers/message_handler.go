package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clientbook/internal/infra/http/middleware"
	"github.com/xavierca1/clientbook/internal/usecase"
)

type MessageHandler struct {
	compose *usecase.ComposeMessagesUseCase
	send    *usecase.SendMessageUseCase
}

func NewMessageHandler(compose *usecase.ComposeMessagesUseCase, send *usecase.SendMessageUseCase) *MessageHandler {
	return &MessageHandler{compose: compose, send: send}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.compose.Execute(r.Context(), usecase.ComposeMessagesInput{
		ClientID: chi.URLParam(r, "id"),
		Channel:  chi.URLParam(r, "channel"),
	})
	if err != nil {
		writeUseCaseError(w, err, "compose")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ClientID = chi.URLParam(r, "id")
	input.Channel = chi.URLParam(r, "channel")

	output, err := h.send.Execute(r.Context(), input)
	if err != nil {
		if usecase.HasCode(err, usecase.CodeDeliveryFailed) {
			middleware.RecordMessageSent(input.Channel, "failed")
		}
		writeUseCaseError(w, err, "send")
		return
	}

	middleware.RecordMessageSent(output.Channel, "sent")
	writeJSON(w, http.StatusOK, output)
}
