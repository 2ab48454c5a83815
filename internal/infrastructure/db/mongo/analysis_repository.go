package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const collectionAnalyses = "analyses"

// AnalysisRepository implements ports.AnalysisRepository using MongoDB.
type AnalysisRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAnalysisRepository(db *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{db: db, col: db.Collection(collectionAnalyses)}
}

func (r *AnalysisRepository) Insert(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *a
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return &doc, nil
}

func (r *AnalysisRepository) Latest(ctx context.Context, callID string) (*domain.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var a domain.Analysis
	if err := r.col.FindOne(ctx, bson.M{"call_id": callID}, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) DeleteByCall(ctx context.Context, callID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"call_id": callID})
	return err
}

type operatorFacets struct {
	Calls []struct {
		Total       int64    `bson:"total"`
		Analyzed    int64    `bson:"analyzed"`
		AvgDuration *float64 `bson:"avg_duration"`
	} `bson:"calls"`
	Scores []struct {
		Overall          *float64 `bson:"overall"`
		Regulation       *float64 `bson:"regulation"`
		CommercialSkill  *float64 `bson:"commercial_skill"`
		ProductKnowledge *float64 `bson:"product_knowledge"`
		SaleClosing      *float64 `bson:"sale_closing"`
	} `bson:"scores"`
}

// OperatorStats joins the operator's calls with their analyses. Call counts
// and average duration are per call; score averages are over every analysis.
func (r *AnalysisRepository) OperatorStats(ctx context.Context, operator string) (*domain.OperatorStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operator_name": operator}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionAnalyses,
			"localField":   "_id",
			"foreignField": "call_id",
			"as":           "analyses",
		}}},
		{{Key: "$facet", Value: bson.M{
			"calls": bson.A{
				bson.M{"$group": bson.M{
					"_id":   nil,
					"total": bson.M{"$sum": 1},
					"analyzed": bson.M{"$sum": bson.M{
						"$cond": bson.A{bson.M{"$gt": bson.A{bson.M{"$size": "$analyses"}, 0}}, 1, 0},
					}},
					"avg_duration": bson.M{"$avg": "$duration_seconds"},
				}},
			},
			"scores": bson.A{
				bson.M{"$unwind": "$analyses"},
				bson.M{"$group": bson.M{
					"_id":               nil,
					"overall":           bson.M{"$avg": "$analyses.rubric.overall"},
					"regulation":        bson.M{"$avg": "$analyses.rubric.regulation.score"},
					"commercial_skill":  bson.M{"$avg": "$analyses.rubric.commercial_skill.score"},
					"product_knowledge": bson.M{"$avg": "$analyses.rubric.product_knowledge.score"},
					"sale_closing":      bson.M{"$avg": "$analyses.rubric.sale_closing.score"},
				}},
			},
		}}},
	}

	cur, err := r.db.Collection(collectionCalls).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("operator stats: %w", err)
	}
	defer cur.Close(ctx)

	var facets []operatorFacets
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode operator stats: %w", err)
	}

	stats := &domain.OperatorStats{OperatorName: operator}
	if len(facets) == 0 {
		return stats, nil
	}
	if c := facets[0].Calls; len(c) > 0 {
		stats.TotalCalls = c[0].Total
		stats.AnalyzedCalls = c[0].Analyzed
		stats.AvgDurationSeconds = c[0].AvgDuration
	}
	if s := facets[0].Scores; len(s) > 0 {
		stats.AvgOverall = s[0].Overall
		stats.AvgRegulation = s[0].Regulation
		stats.AvgCommercialSkill = s[0].CommercialSkill
		stats.AvgProductKnowledge = s[0].ProductKnowledge
		stats.AvgSaleClosing = s[0].SaleClosing
	}
	return stats, nil
}

// EnsureIndexes creates the call_id lookup index.
func (r *AnalysisRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "call_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)
