package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/internal/storage"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

const sniffLen = 512

var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// UploadInput describes an uploaded file.
type UploadInput struct {
	Name     string
	Type     domain.DocumentType
	FileName string
	Size     int64
	Body     io.Reader
}

// DocumentView pairs metadata with a fetchable URL.
type DocumentView struct {
	domain.Document
	URL string
}

// DocumentService stores worker documents and records review decisions.
type DocumentService struct {
	documents  repository.DocumentRepository
	files      storage.FileStorage
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxBytes   int64
}

// DocumentDependencies encapsulates collaborators.
type DocumentDependencies struct {
	Documents      repository.DocumentRepository
	Files          storage.FileStorage
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// NewDocumentService builds the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	return &DocumentService{
		documents:  deps.Documents,
		files:      deps.Files,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		maxBytes:   deps.MaxUploadBytes,
	}
}

// Upload validates and stores a file. The content type is sniffed from the
// bytes, not taken from the client.
func (s *DocumentService) Upload(ctx context.Context, ownerID string, in UploadInput) (*DocumentView, error) {
	if in.Type == "" {
		in.Type = domain.DocumentOther
	}
	if !in.Type.Valid() {
		return nil, errorutil.NewValidationError("unknown document type", map[string]any{"type": in.Type})
	}
	if in.Body == nil || in.Size <= 0 {
		return nil, errorutil.NewValidationError("file is required", nil)
	}
	if in.Size > s.maxBytes {
		return nil, errorutil.NewValidationError("file too large", map[string]any{"maxBytes": s.maxBytes})
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errorutil.NewInternalError(err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, errorutil.NewValidationError("only PDF, JPEG and PNG files are allowed", map[string]any{"contentType": contentType})
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSuffix(path.Base(in.FileName), path.Ext(in.FileName))
	}
	if name == "" || name == "." {
		name = string(in.Type)
	}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Type:        in.Type,
		ContentType: contentType,
		SizeBytes:   in.Size,
		Status:      domain.DocumentPending,
	}
	doc.StorageKey = path.Join("documents", ownerID, doc.ID+ext)

	body := io.MultiReader(bytes.NewReader(head), in.Body)
	if err := s.files.Put(ctx, doc.StorageKey, body, in.Size, contentType); err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.removeFile(ctx, doc.StorageKey)
		return nil, errorutil.NewInternalError(err)
	}
	return s.view(ctx, *doc), nil
}

func (s *DocumentService) view(ctx context.Context, doc domain.Document) *DocumentView {
	url, err := s.files.URL(ctx, doc.StorageKey)
	if err != nil {
		s.logger.Warn("document url unavailable", zap.String("document_id", doc.ID), zap.Error(err))
	}
	return &DocumentView{Document: doc, URL: url}
}

func (s *DocumentService) views(ctx context.Context, docs []domain.Document) []DocumentView {
	result := make([]DocumentView, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *s.view(ctx, doc))
	}
	return result
}

func (s *DocumentService) removeFile(ctx context.Context, key string) {
	if err := s.files.Delete(ctx, key); err != nil {
		s.logger.Warn("document file not removed", zap.String("key", key), zap.Error(err))
	}
}

// ListForOwner returns a worker's own documents.
func (s *DocumentService) ListForOwner(ctx context.Context, ownerID string) ([]DocumentView, error) {
	docs, err := s.documents.List(ctx, ownerID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return s.views(ctx, docs), nil
}

// List returns every document for admin review.
func (s *DocumentService) List(ctx context.Context) ([]DocumentView, error) {
	return s.ListForOwner(ctx, "")
}

// Delete removes a worker's own document unless it has been approved.
func (s *DocumentService) Delete(ctx context.Context, ownerID, id string) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "document")
	}
	if doc.OwnerID != ownerID {
		return errorutil.NewNotFound("document", nil)
	}
	if doc.Status == domain.DocumentApproved {
		return errorutil.NewValidationError("approved documents cannot be deleted", nil)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return mapRepoError(err, "document")
	}
	s.removeFile(ctx, doc.StorageKey)
	return nil
}

// Review records an admin decision on a document.
func (s *DocumentService) Review(ctx context.Context, adminID, id string, status domain.DocumentStatus) (*DocumentView, error) {
	if status != domain.DocumentApproved && status != domain.DocumentRejected {
		return nil, errorutil.NewValidationError("status must be approved or rejected", nil)
	}
	doc, err := s.documents.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapRepoError(err, "document")
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventDocumentReviewed,
			AccountID: doc.OwnerID,
			ActorID:   adminID,
			Payload:   events.DocumentReviewedPayload{DocumentID: doc.ID, Name: doc.Name, Status: status},
		})
	}
	return s.view(ctx, *doc), nil
}
