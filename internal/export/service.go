package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rfp-intake/internal/models"
	"rfp-intake/internal/storage"
)

const sheet = "RFPs"

// Service renders the document dashboard as an XLSX workbook.
type Service struct {
	store storage.Store
	log   *zap.Logger
}

func NewService(store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("export")}
}

// DocumentsXLSX returns the workbook bytes for every document matching q,
// in listing order. A blank q exports everything.
func (s *Service) DocumentsXLSX(ctx context.Context, q string) ([]byte, error) {
	start := time.Now()

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docs = models.FilterDocuments(docs, q)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{
		"ID",
		"Title",
		"Agency",
		"RFP Number",
		"Due Date",
		"Estimated Value",
		"Opportunity Score",
		"Rating",
		"Status",
		"File Name",
		"Uploaded At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, d := range docs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.ID)
		write(2, deref(d.Title))
		write(3, deref(d.Agency))
		write(4, deref(d.RFPNumber))
		write(5, deref(d.DueDate))
		write(6, deref(d.EstimatedValue))
		if d.OpportunityScore != nil {
			write(7, *d.OpportunityScore)
			write(8, models.OpportunityRating(*d.OpportunityScore))
		}
		write(9, models.MatchLabel(d))
		write(10, d.FileName)
		write(11, d.UploadedAt.UTC().Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheet, "B", "C", 40) // title, agency
	_ = f.SetColWidth(sheet, "D", "F", 18)
	_ = f.SetColWidth(sheet, "J", "K", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info("export.xlsx.ok",
		zap.Int("rows", len(docs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
