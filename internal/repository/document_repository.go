package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/worker-portal/internal/domain"
)

// DocumentRepository persists uploaded document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	// List returns every document when ownerID is empty.
	List(ctx context.Context, ownerID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) (*domain.Document, error)
	Delete(ctx context.Context, id string) error
}

const documentsCollection = "documents"

type documentRecord struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	Type        string    `bson:"type"`
	StorageKey  string    `bson:"storage_key"`
	ContentType string    `bson:"content_type"`
	SizeBytes   int64     `bson:"size_bytes"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocumentRecord(d *domain.Document) documentRecord {
	return documentRecord{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Type:        string(d.Type),
		StorageKey:  d.StorageKey,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r documentRecord) toDomain() domain.Document {
	return domain.Document{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Type:        domain.DocumentType(r.Type),
		StorageKey:  r.StorageKey,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Status:      domain.DocumentStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type mongoDocumentRepository struct {
	coll *mongo.Collection
}

// NewMongoDocumentRepository returns a MongoDB-backed implementation.
func NewMongoDocumentRepository(db *mongo.Database) DocumentRepository {
	return &mongoDocumentRepository{coll: db.Collection(documentsCollection)}
}

func (r *mongoDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toDocumentRecord(doc))
	return err
}

func (r *mongoDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var rec documentRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	doc := rec.toDomain()
	return &doc, nil
}

func (r *mongoDocumentRepository) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	query := bson.M{}
	if ownerID != "" {
		query["owner_id"] = ownerID
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []documentRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	result := make([]domain.Document, 0, len(recs))
	for _, rec := range recs {
		result = append(result, rec.toDomain())
	}
	return result, nil
}

func (r *mongoDocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) (*domain.Document, error) {
	var rec documentRecord
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	doc := rec.toDomain()
	return &doc, nil
}

func (r *mongoDocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewMemoryDocumentRepository returns an in-process implementation.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{docs: make(map[string]domain.Document)}
}

func (r *memoryDocumentRepository) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memoryDocumentRepository) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (r *memoryDocumentRepository) List(_ context.Context, ownerID string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Document, 0)
	for _, doc := range r.docs {
		if ownerID != "" && doc.OwnerID != ownerID {
			continue
		}
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryDocumentRepository) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = time.Now().UTC()
	r.docs[id] = doc
	return &doc, nil
}

func (r *memoryDocumentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
