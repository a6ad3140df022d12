package executor

import (
	"encoding/json"
	"net/http"

	"shareboard/internal/document/model"
	"shareboard/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Client   *Client
	validate *validator.Validate
}

// NewHandler wraps the executor client for HTTP. A nil client means code
// execution is not configured; requests are rejected with 503.
func NewHandler(client *Client) *Handler {
	return &Handler{Client: client, validate: validator.New()}
}

func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{Detail: "Code execution is not configured"})
		return
	}

	var req ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Language and source are required"})
		return
	}

	result, err := h.Client.Execute(r.Context(), req)
	if err != nil {
		logger.Sugar.Errorf("Code execution failed: %v", err)
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Detail: "Code execution failed"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Sugar.Errorf("Error encoding response: %v", err)
	}
}
