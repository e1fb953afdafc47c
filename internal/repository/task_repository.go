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

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	Delete(ctx context.Context, id string) error
}

const tasksCollection = "tasks"

type taskDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	DueDate     time.Time `bson:"due_date"`
	Priority    string    `bson:"priority"`
	Status      string    `bson:"status"`
	Location    string    `bson:"location,omitempty"`
	AssignedTo  string    `bson:"assigned_to"`
	AssignedBy  string    `bson:"assigned_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Location:    t.Location,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    domain.TaskPriority(d.Priority),
		Status:      domain.TaskStatus(d.Status),
		Location:    d.Location,
		AssignedTo:  d.AssignedTo,
		AssignedBy:  d.AssignedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type mongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository returns a MongoDB-backed implementation.
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &mongoTaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toTaskDocument(task))
	return err
}

func (r *mongoTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, toTaskDocument(task))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *mongoTaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query := bson.M{}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

func (r *mongoTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewMemoryTaskRepository returns an in-process implementation.
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{tasks: make(map[string]domain.Task)}
}

func (r *memoryTaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return nil
}

func (r *memoryTaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	r.tasks[task.ID] = *task
	return nil
}

func (r *memoryTaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (r *memoryTaskRepository) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if filter.AssignedTo != "" && task.AssignedTo != filter.AssignedTo {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, task.Status) {
			continue
		}
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func containsStatus(statuses []domain.TaskStatus, s domain.TaskStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
