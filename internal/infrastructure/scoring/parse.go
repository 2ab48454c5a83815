package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/callcoach/platform/internal/core/domain"
)

// score accepts 7, 7.5 and "7" alike; the model is not consistent about it.
type score int

func (s *score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	raw := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("score %s: %w", b, err)
	}
	*s = score(math.Round(f))
	return nil
}

type wireCriterion struct {
	Cumplimiento *score `json:"cumplimiento"`
	Puntuacion   *score `json:"puntuacion"`
	Comentario   string `json:"comentario"`
}

func (c wireCriterion) toDomain() domain.Criterion {
	var v score
	switch {
	case c.Puntuacion != nil:
		v = *c.Puntuacion
	case c.Cumplimiento != nil:
		v = *c.Cumplimiento
	}
	return domain.Criterion{Score: int(v), Comment: c.Comentario}
}

type wireRubric struct {
	Regulacion           wireCriterion `json:"regulacion"`
	HabilidadComercial   wireCriterion `json:"habilidad_comercial"`
	ConocimientoProducto wireCriterion `json:"conocimiento_producto"`
	CierreVenta          wireCriterion `json:"cierre_venta"`
	PuntuacionGeneral    score         `json:"puntuacion_general"`
	AspectosPositivos    []string      `json:"aspectos_positivos"`
	AreasMejora          []string      `json:"areas_mejora"`
	Recomendacion        string        `json:"recomendacion"`
}

// parseRubric extracts the outermost {...} block of generated text, decodes it
// and clamps every score into range.
func parseRubric(generated string) (*domain.Rubric, error) {
	start := strings.Index(generated, "{")
	end := strings.LastIndex(generated, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no json object in output", domain.ErrScoringOutput)
	}

	var w wireRubric
	if err := json.Unmarshal([]byte(generated[start:end+1]), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScoringOutput, err)
	}

	r := &domain.Rubric{
		Regulation:       w.Regulacion.toDomain(),
		CommercialSkill:  w.HabilidadComercial.toDomain(),
		ProductKnowledge: w.ConocimientoProducto.toDomain(),
		SaleClosing:      w.CierreVenta.toDomain(),
		Overall:          int(w.PuntuacionGeneral),
		Positives:        nonNil(w.AspectosPositivos),
		Improvements:     nonNil(w.AreasMejora),
		Recommendation:   w.Recomendacion,
	}
	r.Clamp()
	return r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
