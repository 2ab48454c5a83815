package domain

import "time"

// MaxScore is the top of every rubric scale (scores run 0..MaxScore).
const MaxScore = 10

// Criterion is a single scored rubric line.
type Criterion struct {
	Score   int    `json:"score" bson:"score"`
	Comment string `json:"comment" bson:"comment"`
}

// Rubric is the scoring oracle's verdict on a transcript.
type Rubric struct {
	Regulation       Criterion `json:"regulation" bson:"regulation"`
	CommercialSkill  Criterion `json:"commercial_skill" bson:"commercial_skill"`
	ProductKnowledge Criterion `json:"product_knowledge" bson:"product_knowledge"`
	SaleClosing      Criterion `json:"sale_closing" bson:"sale_closing"`
	Overall          int       `json:"overall" bson:"overall"`
	Positives        []string  `json:"positives" bson:"positives"`
	Improvements     []string  `json:"improvements" bson:"improvements"`
	Recommendation   string    `json:"recommendation" bson:"recommendation"`
}

// Clamp forces every score into 0..MaxScore.
func (r *Rubric) Clamp() {
	r.Regulation.Score = clampScore(r.Regulation.Score)
	r.CommercialSkill.Score = clampScore(r.CommercialSkill.Score)
	r.ProductKnowledge.Score = clampScore(r.ProductKnowledge.Score)
	r.SaleClosing.Score = clampScore(r.SaleClosing.Score)
	r.Overall = clampScore(r.Overall)
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

// Analysis is a stored rubric result for a call.
type Analysis struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CallID    string    `json:"call_id" bson:"call_id"`
	Rubric    Rubric    `json:"result" bson:"rubric"`
	Model     string    `json:"model" bson:"model"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// OperatorStats aggregates calls and analyses of one operator.
type OperatorStats struct {
	OperatorName        string   `json:"operator_name"`
	TotalCalls          int64    `json:"total_calls"`
	AnalyzedCalls       int64    `json:"analyzed_calls"`
	AvgOverall          *float64 `json:"avg_overall"`
	AvgDurationSeconds  *float64 `json:"avg_duration_seconds"`
	AvgRegulation       *float64 `json:"avg_regulation"`
	AvgCommercialSkill  *float64 `json:"avg_commercial_skill"`
	AvgProductKnowledge *float64 `json:"avg_product_knowledge"`
	AvgSaleClosing      *float64 `json:"avg_sale_closing"`
}
