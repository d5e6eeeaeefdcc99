package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"rfp-intake/internal/models"
)

// Placeholders written into fields the model left empty.
const (
	DefaultTitle        = "Unknown RFP Title"
	DefaultNotSpecified = "Not specified"
	DefaultRFPNumber    = "N/A"
	NoDatesEvent        = "No specific dates found in document"
	NoDatesDate         = "N/A"
)

// AnalysisResult is a fully populated analysis. Values of this type have
// already been through Normalize: no field is blank and no list is nil.
type AnalysisResult struct {
	Title            string              `json:"title"`
	Agency           string              `json:"agency"`
	RFPNumber        string              `json:"rfpNumber"`
	DueDate          string              `json:"dueDate"`
	EstimatedValue   string              `json:"estimatedValue"`
	ContractTerm     string              `json:"contractTerm"`
	ContactPerson    string              `json:"contactPerson"`
	OpportunityScore int                 `json:"opportunityScore"`
	KeyDates         []models.KeyDate    `json:"keyDates"`
	Requirements     models.Requirements `json:"requirements"`
	AIAnalysis       models.AIAnalysis   `json:"aiAnalysis"`
}

// RawAnalysis is the model output as decoded, before defaults are applied.
type RawAnalysis struct {
	Title            *string              `json:"title"`
	Agency           *string              `json:"agency"`
	RFPNumber        *string              `json:"rfpNumber"`
	DueDate          *string              `json:"dueDate"`
	EstimatedValue   *string              `json:"estimatedValue"`
	ContractTerm     *string              `json:"contractTerm"`
	ContactPerson    *string              `json:"contactPerson"`
	OpportunityScore *float64             `json:"opportunityScore"`
	KeyDates         json.RawMessage      `json:"keyDates"`
	Requirements     *models.Requirements `json:"requirements"`
	AIAnalysis       *models.AIAnalysis   `json:"aiAnalysis"`
}

// analysisSchema only checks shapes. Every property is optional and may be
// null; keyDates may be any type because a non-list is replaced later.
const analysisSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title":            {"type": ["string", "null"]},
    "agency":           {"type": ["string", "null"]},
    "rfpNumber":        {"type": ["string", "null"]},
    "dueDate":          {"type": ["string", "null"]},
    "estimatedValue":   {"type": ["string", "null"]},
    "contractTerm":     {"type": ["string", "null"]},
    "contactPerson":    {"type": ["string", "null"]},
    "opportunityScore": {"type": ["number", "null"]},
    "keyDates": {
      "items": {
        "type": "object",
        "properties": {
          "event":  {"type": ["string", "null"]},
          "date":   {"type": ["string", "null"]},
          "icon":   {"type": ["string", "null"]},
          "passed": {"type": ["boolean", "null"]}
        }
      }
    },
    "requirements": {
      "type": ["object", "null"],
      "properties": {
        "technical":      {"$ref": "#/$defs/textList"},
        "qualifications": {"$ref": "#/$defs/textList"}
      }
    },
    "aiAnalysis": {
      "type": ["object", "null"],
      "properties": {
        "keyInsights": {"$ref": "#/$defs/textList"},
        "strengths":   {"$ref": "#/$defs/textList"},
        "challenges":  {"$ref": "#/$defs/textList"}
      }
    }
  },
  "$defs": {
    "textList": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var compiledAnalysisSchema = jsonschema.MustCompileString("analysis.json", analysisSchema)

// ParseAnalysis validates the model's JSON content against the expected
// structure and returns the normalized result.
func ParseAnalysis(content []byte) (AnalysisResult, error) {
	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return AnalysisResult{}, fmt.Errorf("empty content")
	}

	var generic any
	if err := json.Unmarshal(content, &generic); err != nil {
		return AnalysisResult{}, fmt.Errorf("content is not valid JSON: %w", err)
	}
	if err := compiledAnalysisSchema.Validate(generic); err != nil {
		return AnalysisResult{}, fmt.Errorf("content does not match analysis structure: %w", err)
	}

	var raw RawAnalysis
	if err := json.Unmarshal(content, &raw); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	return Normalize(raw), nil
}

// Normalize applies the fallback rules in a fixed order: score clamp,
// requirements, AI analysis, text placeholders, key dates. It is idempotent.
func Normalize(raw RawAnalysis) AnalysisResult {
	var out AnalysisResult

	out.OpportunityScore = clampScore(raw.OpportunityScore)

	if raw.Requirements == nil {
		out.Requirements = models.Requirements{Technical: []string{}, Qualifications: []string{}}
	} else {
		out.Requirements = models.Requirements{
			Technical:      nonNil(raw.Requirements.Technical),
			Qualifications: nonNil(raw.Requirements.Qualifications),
		}
	}

	if raw.AIAnalysis == nil {
		out.AIAnalysis = models.AIAnalysis{KeyInsights: []string{}, Strengths: []string{}, Challenges: []string{}}
	} else {
		out.AIAnalysis = models.AIAnalysis{
			KeyInsights: nonNil(raw.AIAnalysis.KeyInsights),
			Strengths:   nonNil(raw.AIAnalysis.Strengths),
			Challenges:  nonNil(raw.AIAnalysis.Challenges),
		}
	}

	out.Title = textOr(raw.Title, DefaultTitle)
	out.Agency = textOr(raw.Agency, DefaultNotSpecified)
	out.RFPNumber = textOr(raw.RFPNumber, DefaultRFPNumber)
	out.DueDate = textOr(raw.DueDate, DefaultNotSpecified)
	out.ContactPerson = textOr(raw.ContactPerson, DefaultNotSpecified)
	out.EstimatedValue = textOr(raw.EstimatedValue, DefaultNotSpecified)
	out.ContractTerm = textOr(raw.ContractTerm, DefaultNotSpecified)

	out.KeyDates = keyDatesOrPlaceholder(raw.KeyDates)

	return out
}

func clampScore(score *float64) int {
	if score == nil || math.IsNaN(*score) {
		return 1
	}
	s := math.Round(*score)
	if s < 1 {
		return 1
	}
	if s > 100 {
		return 100
	}
	return int(s)
}

func textOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func keyDatesOrPlaceholder(raw json.RawMessage) []models.KeyDate {
	var dates []models.KeyDate
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &dates); err != nil {
			dates = nil
		}
	}
	if len(dates) == 0 {
		return []models.KeyDate{{
			Event:  NoDatesEvent,
			Date:   NoDatesDate,
			Icon:   models.IconQuestion,
			Passed: false,
		}}
	}
	for i := range dates {
		switch dates[i].Icon {
		case models.IconCheck, models.IconQuestion, models.IconComment, models.IconFile:
		default:
			dates[i].Icon = models.IconQuestion
		}
	}
	return dates
}
