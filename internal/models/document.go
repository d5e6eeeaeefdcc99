package models

import "time"

// Accepted upload MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// IsAcceptedMime reports whether the MIME type is one of the two upload formats.
func IsAcceptedMime(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeDOCX
}

// Key date icons
const (
	IconCheck    = "check"
	IconQuestion = "question"
	IconComment  = "comment"
	IconFile     = "file"
)

// Document is an uploaded RFP and, once processed, its analysis.
// Analysis fields stay nil until the upload pipeline has finished.
type Document struct {
	ID         int       `json:"id" db:"id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FileType   string    `json:"fileType" db:"file_type"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	UploadedAt time.Time `json:"uploadedAt" db:"uploaded_at"`
	Processed  bool      `json:"processed" db:"processed"`

	Title            *string       `json:"title" db:"title"`
	Agency           *string       `json:"agency" db:"agency"`
	RFPNumber        *string       `json:"rfpNumber" db:"rfp_number"`
	DueDate          *string       `json:"dueDate" db:"due_date"`
	EstimatedValue   *string       `json:"estimatedValue" db:"estimated_value"`
	ContractTerm     *string       `json:"contractTerm" db:"contract_term"`
	ContactPerson    *string       `json:"contactPerson" db:"contact_person"`
	OpportunityScore *int          `json:"opportunityScore" db:"opportunity_score"`
	KeyDates         []KeyDate     `json:"keyDates" db:"key_dates"`
	Requirements     *Requirements `json:"requirements" db:"requirements"`
	AIAnalysis       *AIAnalysis   `json:"aiAnalysis" db:"ai_analysis"`
	FullText         *string       `json:"fullText" db:"full_text"`
}

// KeyDate is one milestone on the RFP timeline. Passed is whatever the
// analysis reported and is never recomputed against the clock.
type KeyDate struct {
	Event  string `json:"event"`
	Date   string `json:"date"`
	Icon   string `json:"icon"`
	Passed bool   `json:"passed"`
}

type Requirements struct {
	Technical      []string `json:"technical"`
	Qualifications []string `json:"qualifications"`
}

type AIAnalysis struct {
	KeyInsights []string `json:"keyInsights"`
	Strengths   []string `json:"strengths"`
	Challenges  []string `json:"challenges"`
}

// NewDocument holds the fields supplied by the caller at creation time.
type NewDocument struct {
	FileName string
	FileType string
	FileSize int64
}

// DocumentPatch is a shallow partial update: every non-nil field replaces
// the stored value as a whole, nested objects included.
type DocumentPatch struct {
	Processed        *bool
	Title            *string
	Agency           *string
	RFPNumber        *string
	DueDate          *string
	EstimatedValue   *string
	ContractTerm     *string
	ContactPerson    *string
	OpportunityScore *int
	KeyDates         []KeyDate
	Requirements     *Requirements
	AIAnalysis       *AIAnalysis
	FullText         *string
}

// Apply merges the patch over doc in place.
func (p DocumentPatch) Apply(doc *Document) {
	if p.Processed != nil {
		doc.Processed = *p.Processed
	}
	if p.Title != nil {
		doc.Title = p.Title
	}
	if p.Agency != nil {
		doc.Agency = p.Agency
	}
	if p.RFPNumber != nil {
		doc.RFPNumber = p.RFPNumber
	}
	if p.DueDate != nil {
		doc.DueDate = p.DueDate
	}
	if p.EstimatedValue != nil {
		doc.EstimatedValue = p.EstimatedValue
	}
	if p.ContractTerm != nil {
		doc.ContractTerm = p.ContractTerm
	}
	if p.ContactPerson != nil {
		doc.ContactPerson = p.ContactPerson
	}
	if p.OpportunityScore != nil {
		doc.OpportunityScore = p.OpportunityScore
	}
	if p.KeyDates != nil {
		doc.KeyDates = p.KeyDates
	}
	if p.Requirements != nil {
		doc.Requirements = p.Requirements
	}
	if p.AIAnalysis != nil {
		doc.AIAnalysis = p.AIAnalysis
	}
	if p.FullText != nil {
		doc.FullText = p.FullText
	}
}

// Score returns the opportunity score, or 0 while unscored.
func (d *Document) Score() int {
	if d.OpportunityScore == nil {
		return 0
	}
	return *d.OpportunityScore
}

// OpportunityRating buckets a score the way the detail view labels it.
func OpportunityRating(score int) string {
	switch {
	case score < 20:
		return "Poor"
	case score < 40:
		return "Fair"
	case score < 60:
		return "Good"
	case score < 80:
		return "Very Good"
	default:
		return "Excellent"
	}
}

// StrongMatchScore is the lowest score the dashboard counts as a strong match.
const StrongMatchScore = 70

// MatchLabel is the dashboard status badge for a document.
func MatchLabel(d *Document) string {
	if !d.Processed {
		return "Processing"
	}
	score := d.Score()
	switch {
	case score < 40:
		return "Not Recommended"
	case score < StrongMatchScore:
		return "Potential Match"
	default:
		return "Strong Match"
	}
}
