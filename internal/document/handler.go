package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shareboard/internal/document/model"
	"shareboard/internal/document/service"
	"shareboard/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type DocumentHandler struct {
	Service  *service.DocumentService
	validate *validator.Validate
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		Service:  svc,
		validate: validator.New(),
	}
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.List()
	if err != nil {
		logger.Sugar.Errorf("Error listing documents: %v", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.PathValue("id"))
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Detail: "Document not found"})
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Error fetching document: %v", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Title is required"})
		return
	}

	doc, err := h.Service.Create(req.Title, req.Content)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create document: %v", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Failed to create document"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid request body"})
		return
	}

	id := r.PathValue("id")
	doc, err := h.Service.Update(id, req.Title, req.Content)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Detail: "Document not found"})
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to update document %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Failed to update document"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.Service.Delete(id)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete document %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Failed to delete document"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Detail: "Document not found"})
		return
	}
	writeJSON(w, http.StatusOK, model.DeleteDocResponse{Message: "Document deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Sugar.Errorf("Error encoding response: %v", err)
	}
}
