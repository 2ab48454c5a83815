package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const collectionCalls = "calls"

type CallRepository struct {
	col *mongo.Collection
}

func NewCallRepository(db *mongo.Database) *CallRepository {
	return &CallRepository{col: db.Collection(collectionCalls)}
}

// Create inserts a new call document.
func (r *CallRepository) Create(ctx context.Context, c *domain.Call) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *CallRepository) FindByID(ctx context.Context, id string) (*domain.Call, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Call
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCallNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListRecent returns at most limit calls ordered by creation time, newest first.
func (r *CallRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Call, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer cur.Close(ctx)

	calls := make([]*domain.Call, 0, limit)
	if err := cur.All(ctx, &calls); err != nil {
		return nil, fmt.Errorf("decode calls: %w", err)
	}
	return calls, nil
}

// SetAnalysisStatus is a compare-and-set on analysis_status when from is given.
func (r *CallRepository) SetAnalysisStatus(ctx context.Context, id string, status domain.AnalysisStatus, from ...domain.AnalysisStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if len(from) > 0 {
		filter["analysis_status"] = bson.M{"$in": from}
	}
	update := bson.M{"$set": bson.M{
		"analysis_status": status,
		"updated_at":      time.Now().UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("set analysis status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *CallRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete call: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCallNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the calls collection.
func (r *CallRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "operator_name", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

var _ ports.CallRepository = (*CallRepository)(nil)
