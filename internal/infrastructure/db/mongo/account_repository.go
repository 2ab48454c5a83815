package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const (
	collectionUsers    = "users"
	collectionRoles    = "roles"
	collectionCounters = "counters"
)

// AccountRepository implements ports.AccountRepository on MongoDB. Account ids
// are sequential numbers kept in the counters collection.
type AccountRepository struct {
	users    *mongo.Collection
	roles    *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		users:    db.Collection(collectionUsers),
		roles:    db.Collection(collectionRoles),
		counters: db.Collection(collectionCounters),
	}
}

type mongoAccount struct {
	ID           string    `bson:"_id"`
	Seq          int64     `bson:"seq"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	RoleID       int       `bson:"role_id"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type mongoRole struct {
	ID          int    `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role_id", Value: 1}, {Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "seq", Value: 1}}},
	})
	return err
}

// SeedRoles upserts the default role rows.
func (r *AccountRepository) SeedRoles(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, role := range domain.DefaultRoles() {
		_, err := r.roles.UpdateOne(ctx,
			bson.M{"_id": int(role.ID)},
			bson.M{"$set": bson.M{"name": role.Name, "description": role.Description}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindRole(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.roles.FindOne(ctx, bson.M{"_id": int(id)}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: domain.RoleID(mr.ID), Name: mr.Name, Description: mr.Description}, nil
}

func (r *AccountRepository) Insert(ctx context.Context, in ports.NewAccount) (*domain.Account, error) {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := mongoAccount{
		ID:           strconv.FormatInt(seq, 10),
		Seq:          seq,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		RoleID:       int(in.RoleID),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := r.users.InsertOne(insertCtx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.toDomain(ctx, &doc)
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id string, p domain.AccountPatch) (*domain.Account, error) {
	set := bson.M{}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	return r.update(ctx, id, set)
}

func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	return r.update(ctx, id, bson.M{"is_active": active})
}

func (r *AccountRepository) SetRole(ctx context.Context, id string, role domain.RoleID) (*domain.Account, error) {
	return r.update(ctx, id, bson.M{"role_id": int(role)})
}

func (r *AccountRepository) SetPasswordHash(ctx context.Context, id string, hash string) (*domain.Account, error) {
	return r.update(ctx, id, bson.M{"password_hash": hash})
}

func (r *AccountRepository) List(ctx context.Context, f domain.AccountFilter) ([]*domain.Account, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.RoleID != nil {
		filter["role_id"] = int(*f.RoleID)
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}

	total, err := r.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.PageSize))

	cur, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	roles, err := r.roleIndex(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, accountFromDoc(&docs[i], roles[domain.RoleID(docs[i].RoleID)]))
	}
	return out, total, nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	findCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.users.FindOne(findCtx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.toDomain(ctx, &doc)
}

func (r *AccountRepository) update(ctx context.Context, id string, set bson.M) (*domain.Account, error) {
	updCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoAccount
	err := r.users.FindOneAndUpdate(updCtx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrAccountNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return r.toDomain(ctx, &doc)
}

func (r *AccountRepository) nextSeq(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) toDomain(ctx context.Context, doc *mongoAccount) (*domain.Account, error) {
	role, err := r.FindRole(ctx, domain.RoleID(doc.RoleID))
	if err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, err
	}
	return accountFromDoc(doc, role), nil
}

func (r *AccountRepository) roleIndex(ctx context.Context) (map[domain.RoleID]*domain.Role, error) {
	cur, err := r.roles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	out := make(map[domain.RoleID]*domain.Role, len(docs))
	for _, d := range docs {
		out[domain.RoleID(d.ID)] = &domain.Role{ID: domain.RoleID(d.ID), Name: d.Name, Description: d.Description}
	}
	return out, nil
}

func accountFromDoc(doc *mongoAccount, role *domain.Role) *domain.Account {
	a := &domain.Account{
		ID:           doc.ID,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		RoleID:       domain.RoleID(doc.RoleID),
		RoleName:     domain.RoleID(doc.RoleID).Name(),
		IsActive:     doc.IsActive,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if role != nil {
		a.RoleName = role.Name
		a.RoleDescription = role.Description
	}
	return a
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
