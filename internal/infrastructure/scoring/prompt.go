package scoring

import "strings"

const rubricTemplate = `[INST] Analiza esta transcripción de llamada y devuelve SOLO un JSON válido con estas métricas:

{
  "regulacion": {
    "cumplimiento": 0-10,
    "comentario": "breve explicación"
  },
  "habilidad_comercial": {
    "puntuacion": 0-10,
    "comentario": "breve explicación"
  },
  "conocimiento_producto": {
    "puntuacion": 0-10,
    "comentario": "breve explicación"
  },
  "cierre_venta": {
    "puntuacion": 0-10,
    "comentario": "breve explicación"
  },
  "puntuacion_general": 0-10,
  "aspectos_positivos": ["aspecto1", "aspecto2"],
  "areas_mejora": ["mejora1", "mejora2"],
  "recomendacion": "recomendación final"
}

Transcripción: {{transcript}}
[/INST]`

// buildPrompt renders the instruction prompt for one transcript.
func buildPrompt(transcript string) string {
	return strings.Replace(rubricTemplate, "{{transcript}}", strings.TrimSpace(transcript), 1)
}
