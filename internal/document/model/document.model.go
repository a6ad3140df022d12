package model

import "time"

// DocumentRecord is the metadata entry persisted in the index file. The
// document body itself lives in a separate content file referenced by
// ContentFile; it is never stored in the index.
type DocumentRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentFile string    `json:"content_file"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is the materialized view returned to callers: the record plus
// the content read from its content file.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateDocRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

// UpdateDocRequest carries partial-update semantics: a nil field is left
// unchanged on the document.
type UpdateDocRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type DeleteDocResponse struct {
	Message string `json:"message"`
}

// ErrorResponse mirrors the API's error body shape, e.g.
// {"detail": "Document not found"}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
