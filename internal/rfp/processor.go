package rfp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/llm"
	"rfp-intake/internal/models"
	"rfp-intake/internal/storage"
)

// DefaultMaxUploadBytes is the largest upload accepted when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, text string) (*llm.AnalysisResult, error)
}

// Upload is a file received at the HTTP boundary.
type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Data     []byte
}

// Processor runs an upload through extraction and analysis and persists the
// outcome. A record is created for every accepted upload and is left
// unprocessed when a later stage fails.
type Processor struct {
	store     storage.Store
	extractor TextExtractor
	analyzer  Analyzer
	maxBytes  int64
	log       *zap.Logger
}

func NewProcessor(store storage.Store, extractor TextExtractor, analyzer Analyzer, maxBytes int64, log *zap.Logger) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		maxBytes:  maxBytes,
		log:       log.Named("processor"),
	}
}

func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Validate checks the upload before any record exists.
func (p *Processor) Validate(u Upload) error {
	if !models.IsAcceptedMime(u.MimeType) {
		return apperr.New(apperr.Validation, "Invalid file type. Only PDF and DOCX files are allowed.")
	}
	size := u.Size
	if n := int64(len(u.Data)); n > size {
		size = n
	}
	if size > p.maxBytes {
		return apperr.Newf(apperr.Validation, "File too large. Maximum size is %d bytes.", p.maxBytes)
	}
	return nil
}

// Process returns the stored document with processed set once every stage
// has succeeded. Stage errors are returned unchanged.
func (p *Processor) Process(ctx context.Context, u Upload) (*models.Document, error) {
	if err := p.Validate(u); err != nil {
		p.log.Warn("upload rejected", zap.String("file", u.FileName), zap.String("mime", u.MimeType), zap.Error(err))
		return nil, err
	}

	start := time.Now()
	doc, err := p.store.CreateDocument(ctx, models.NewDocument{
		FileName: u.FileName,
		FileType: u.MimeType,
		FileSize: u.Size,
	})
	if err != nil {
		p.log.Error("failed to create document", zap.String("file", u.FileName), zap.Error(err))
		return nil, err
	}
	log := p.log.With(zap.Int("document_id", doc.ID), zap.String("file", u.FileName))
	log.Info("document created", zap.String("mime", u.MimeType), zap.Int64("size", u.Size))

	text, err := p.extractor.Extract(ctx, u.Data, u.MimeType)
	if err != nil {
		log.Error("document failed", zap.String("stage", "extract"), zap.Error(err))
		return nil, err
	}
	log.Info("text extracted", zap.Int("chars", len(text)))

	result, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		log.Error("document failed", zap.String("stage", "analyze"), zap.Error(err))
		return nil, err
	}
	log.Info("document analyzed", zap.Int("opportunity_score", result.OpportunityScore))

	updated, err := p.store.UpdateDocument(ctx, doc.ID, analysisPatch(text, result))
	if err != nil {
		log.Error("document failed", zap.String("stage", "update"), zap.Error(err))
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.Wrap(apperr.Store, err, fmt.Sprintf("Failed to update document with ID %d", doc.ID))
		}
		return nil, err
	}

	log.Info("document processed", zap.Duration("elapsed", time.Since(start)))
	return updated, nil
}

func analysisPatch(text string, r *llm.AnalysisResult) models.DocumentPatch {
	processed := true
	score := r.OpportunityScore
	requirements := r.Requirements
	aiAnalysis := r.AIAnalysis
	return models.DocumentPatch{
		Processed:        &processed,
		Title:            &r.Title,
		Agency:           &r.Agency,
		RFPNumber:        &r.RFPNumber,
		DueDate:          &r.DueDate,
		EstimatedValue:   &r.EstimatedValue,
		ContractTerm:     &r.ContractTerm,
		ContactPerson:    &r.ContactPerson,
		OpportunityScore: &score,
		KeyDates:         r.KeyDates,
		Requirements:     &requirements,
		AIAnalysis:       &aiAnalysis,
		FullText:         &text,
	}
}
