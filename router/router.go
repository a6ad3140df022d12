package router

import (
	"encoding/json"
	"net/http"

	docHandler "shareboard/internal/document"
	"shareboard/internal/document/service"
	"shareboard/internal/executor"
	"shareboard/middleware"
	"shareboard/socket"
)

func Setup(docService *service.DocumentService, execClient *executor.Client, hub *socket.Hub, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// WebSocket event feed for the shared board.
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	// REST API
	documents := docHandler.NewDocumentHandler(docService)
	execute := executor.NewHandler(execClient)

	mux.HandleFunc("GET /{$}", root)
	mux.HandleFunc("GET /api/documents", documents.ListDocuments)
	mux.HandleFunc("POST /api/documents", documents.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", documents.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", documents.DeleteDocument)
	mux.HandleFunc("POST /api/execute", execute.Execute)

	cors := middleware.CORSMiddleware(allowedOrigins)
	return middleware.RequestIDMiddleware(cors(mux))
}

func root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Shareboard API is running"})
}
