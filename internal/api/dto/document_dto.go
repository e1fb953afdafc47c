package dto

import (
	"time"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/service"
)

// DocumentResponse metadata plus a fetchable URL.
type DocumentResponse struct {
	ID          string                `json:"id"`
	OwnerID     string                `json:"ownerId"`
	Name        string                `json:"name"`
	Type        domain.DocumentType   `json:"type"`
	ContentType string                `json:"contentType"`
	SizeBytes   int64                 `json:"sizeBytes"`
	Status      domain.DocumentStatus `json:"status"`
	URL         string                `json:"url,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// NewDocumentResponse maps a document view.
func NewDocumentResponse(v *service.DocumentView) DocumentResponse {
	return DocumentResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Name:        v.Name,
		Type:        v.Type,
		ContentType: v.ContentType,
		SizeBytes:   v.SizeBytes,
		Status:      v.Status,
		URL:         v.URL,
		CreatedAt:   v.CreatedAt,
	}
}

// NewDocumentResponses maps a slice of views.
func NewDocumentResponses(views []service.DocumentView) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(views))
	for i := range views {
		out = append(out, NewDocumentResponse(&views[i]))
	}
	return out
}
