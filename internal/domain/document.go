package domain

import "time"

// DocumentType classifies uploaded worker documents.
type DocumentType string

const (
	DocumentIdentity   DocumentType = "identity"
	DocumentAddress    DocumentType = "address"
	DocumentEducation  DocumentType = "education"
	DocumentEmployment DocumentType = "employment"
	DocumentSkill      DocumentType = "skill"
	DocumentOther      DocumentType = "other"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIdentity, DocumentAddress, DocumentEducation, DocumentEmployment, DocumentSkill, DocumentOther:
		return true
	}
	return false
}

// DocumentStatus is the review state of a document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Document is metadata for a file a worker uploaded for review.
type Document struct {
	ID          string
	OwnerID     string
	Name        string
	Type        DocumentType
	StorageKey  string
	ContentType string
	SizeBytes   int64
	Status      DocumentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
