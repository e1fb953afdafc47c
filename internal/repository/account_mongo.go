package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/worker-portal/internal/domain"
)

const (
	accountsCollection = "accounts"
	indexEmail         = "uniq_email"
	indexNationalID    = "uniq_national_id"
)

type accountDocument struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Email            string    `bson:"email"`
	NationalID       string    `bson:"national_id,omitempty"`
	Phone            string    `bson:"phone,omitempty"`
	HomeRegion       string    `bson:"home_region,omitempty"`
	District         string    `bson:"district,omitempty"`
	Address          string    `bson:"address,omitempty"`
	PasswordHash     string    `bson:"password_hash"`
	Role             string    `bson:"role"`
	EmailVerified    bool      `bson:"email_verified"`
	IdentityVerified bool      `bson:"identity_verified"`
	ApprovalStatus   string    `bson:"approval_status"`
	Skills           []string  `bson:"skills,omitempty"`
	Education        string    `bson:"education,omitempty"`
	Experience       string    `bson:"experience,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toAccountDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		NationalID:       a.NationalID,
		Phone:            a.Phone,
		HomeRegion:       a.HomeRegion,
		District:         a.District,
		Address:          a.Address,
		PasswordHash:     a.PasswordHash,
		Role:             string(a.Role),
		EmailVerified:    a.EmailVerified,
		IdentityVerified: a.IdentityVerified,
		ApprovalStatus:   string(a.ApprovalStatus),
		Skills:           a.Skills,
		Education:        a.Education,
		Experience:       a.Experience,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func (d accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:               d.ID,
		Name:             d.Name,
		Email:            d.Email,
		NationalID:       d.NationalID,
		Phone:            d.Phone,
		HomeRegion:       d.HomeRegion,
		District:         d.District,
		Address:          d.Address,
		PasswordHash:     d.PasswordHash,
		Role:             domain.Role(d.Role),
		EmailVerified:    d.EmailVerified,
		IdentityVerified: d.IdentityVerified,
		ApprovalStatus:   domain.ApprovalStatus(d.ApprovalStatus),
		Skills:           d.Skills,
		Education:        d.Education,
		Experience:       d.Experience,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type mongoAccountRepository struct {
	coll *mongo.Collection
}

// NewMongoAccountRepository returns a MongoDB-backed implementation. Call
// EnsureAccountIndexes once at startup so uniqueness is enforced by the server.
func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{coll: db.Collection(accountsCollection)}
}

// EnsureAccountIndexes creates the unique indexes the repository relies on.
func EnsureAccountIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "national_id", Value: 1}},
			Options: options.Index().
				SetName(indexNationalID).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"national_id": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "approval_status", Value: 1}},
			Options: options.Index().SetName("role_approval"),
		},
	})
	return err
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, toAccountDocument(account)); err != nil {
		return classifyDuplicate(err)
	}
	return nil
}

func (r *mongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoAccountRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"national_id": nationalID})
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoAccountRepository) SetEmailVerified(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "email_verified")
}

func (r *mongoAccountRepository) SetIdentityVerified(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "identity_verified")
}

func (r *mongoAccountRepository) setFlag(ctx context.Context, id, field string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAccountRepository) SetApprovalStatus(ctx context.Context, id string, status domain.ApprovalStatus) (domain.ApprovalStatus, error) {
	var before accountDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"approval_status": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return domain.ApprovalStatus(before.ApprovalStatus), nil
}

func (r *mongoAccountRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.HomeRegion != nil {
		set["home_region"] = *update.HomeRegion
	}
	if update.District != nil {
		set["district"] = *update.District
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Skills != nil {
		set["skills"] = update.Skills
	}
	if update.Education != nil {
		set["education"] = *update.Education
	}
	if update.Experience != nil {
		set["experience"] = *update.Experience
	}

	var after accountDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&after)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return after.toDomain(), nil
}

func (r *mongoAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	if filter.ApprovalStatus != "" {
		query["approval_status"] = string(filter.ApprovalStatus)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	result := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *doc.toDomain())
	}
	return result, total, nil
}

// classifyDuplicate maps E11000 errors to sentinels by the violated index.
func classifyDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	messages := []string{err.Error()}
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		messages = messages[:0]
		for _, e := range we.WriteErrors {
			messages = append(messages, e.Message)
		}
	}
	for _, msg := range messages {
		switch duplicateIndex(msg) {
		case indexEmail:
			return ErrDuplicateEmail
		case indexNationalID:
			return ErrDuplicateNationalID
		case "_id_":
			return ErrDuplicateWorkerID
		}
	}
	return err
}

// duplicateIndex extracts the index name from "... index: <name> dup key: ...".
// The key value follows the name, so only the token after "index: " is read.
func duplicateIndex(msg string) string {
	const marker = "index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
