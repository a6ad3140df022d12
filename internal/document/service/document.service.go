package service

import (
	"errors"
	"time"

	"shareboard/internal/document/model"
	"shareboard/internal/document/storage"
	"shareboard/pkg/logger"
	"shareboard/socket"
)

// ErrNotFound is returned when no record matches the requested id. It is
// a normal outcome, not an I/O failure; the HTTP layer maps it to 404.
var ErrNotFound = errors.New("document not found")

// DocumentService composes the metadata index and the content store into
// the document operations. Every read-modify-write of the index runs as a
// single critical section via Index.Mutate, so concurrent mutations to
// different documents cannot overwrite each other's index changes.
type DocumentService struct {
	Index   *storage.Index
	Content *storage.ContentStore
	Hub     *socket.Hub
}

func NewDocumentService(index *storage.Index, content *storage.ContentStore, hub *socket.Hub) *DocumentService {
	return &DocumentService{Index: index, Content: content, Hub: hub}
}

// List returns every document in index order, with content materialized
// from the content store. Cost is one content read per record, which is
// fine for a single shared board.
func (s *DocumentService) List() ([]model.Document, error) {
	records := s.Index.LoadAll()
	docs := make([]model.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, s.materialize(rec))
	}
	return docs, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *DocumentService) Get(id string) (model.Document, error) {
	for _, rec := range s.Index.LoadAll() {
		if rec.ID == id {
			return s.materialize(rec), nil
		}
	}
	return model.Document{}, ErrNotFound
}

// Create writes the content file first (a new file needs no backup), then
// appends the record to the index.
func (s *DocumentService) Create(title, content string) (model.Document, error) {
	id, err := s.Index.NextID()
	if err != nil {
		return model.Document{}, err
	}

	if err := s.Content.Write(id, content); err != nil {
		return model.Document{}, err
	}

	now := time.Now()
	rec := model.DocumentRecord{
		ID:          id,
		Title:       title,
		ContentFile: s.Content.PathFor(id),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Index.Mutate(func(records []model.DocumentRecord) ([]model.DocumentRecord, error) {
		return append(records, rec), nil
	})
	if err != nil {
		return model.Document{}, err
	}

	doc := s.materialize(rec)
	s.Hub.Notify(socket.Event{Type: socket.CreatedType, DocID: id, Document: &doc})
	logger.Sugar.Infof("Created document %s", id)
	return doc, nil
}

// Update applies a partial update: nil fields are left unchanged. The
// existing content file is backed up before it is overwritten.
func (s *DocumentService) Update(id string, title, content *string) (model.Document, error) {
	var updated model.Document

	err := s.Index.Mutate(func(records []model.DocumentRecord) ([]model.DocumentRecord, error) {
		for i, rec := range records {
			if rec.ID != id {
				continue
			}

			if content != nil {
				if _, err := s.Content.Backup(id); err != nil {
					return nil, err
				}
				if err := s.Content.Write(id, *content); err != nil {
					return nil, err
				}
			}
			if title != nil {
				rec.Title = *title
			}
			rec.UpdatedAt = time.Now()

			records[i] = rec
			updated = s.materialize(rec)
			return records, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return model.Document{}, err
	}

	s.Hub.Notify(socket.Event{Type: socket.UpdatedType, DocID: id, Document: &updated})
	logger.Sugar.Infof("Updated document %s", id)
	return updated, nil
}

// Delete removes the document's record and content file, keeping a final
// backup of the content. Backup and file removal are best-effort: their
// failure never blocks the logical deletion. Returns false when no record
// matches.
func (s *DocumentService) Delete(id string) (bool, error) {
	found := false

	err := s.Index.Mutate(func(records []model.DocumentRecord) ([]model.DocumentRecord, error) {
		for i, rec := range records {
			if rec.ID != id {
				continue
			}
			found = true

			if _, err := s.Content.Backup(id); err != nil {
				logger.Sugar.Warnf("Backup before delete of %s failed: %v", id, err)
			}
			if err := s.Content.Remove(id); err != nil {
				logger.Sugar.Warnf("Removing content of %s failed: %v", id, err)
			}

			return append(records[:i], records[i+1:]...), nil
		}
		return nil, ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if found {
		s.Hub.Notify(socket.Event{Type: socket.DeletedType, DocID: id})
		logger.Sugar.Infof("Deleted document %s", id)
	}
	return found, nil
}

func (s *DocumentService) materialize(rec model.DocumentRecord) model.Document {
	return model.Document{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   s.Content.Read(rec.ID),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
