package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Export renders the records on screen as a spreadsheet download.
type Export interface {
	GpaScores(ctx context.Context, records []model.GpaScore, format model.ExportFormat) (model.ExportFile, error)
	LanguageTestScores(ctx context.Context, records []model.LanguageTestScore, format model.ExportFormat) (model.ExportFile, error)
}

type export struct {
	now func() time.Time
}

func NewExportService() Export {
	return &export{now: time.Now}
}

func (s *export) GpaScores(ctx context.Context, records []model.GpaScore, format model.ExportFormat) (model.ExportFile, error) {
	rows := make([]model.GpaScoreRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, model.NewGpaScoreRow(record))
	}
	return s.render(ctx, model.ScoreKindGPA, rows, format)
}

func (s *export) LanguageTestScores(ctx context.Context, records []model.LanguageTestScore, format model.ExportFormat) (model.ExportFile, error) {
	rows := make([]model.LanguageTestScoreRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, model.NewLanguageTestScoreRow(record))
	}
	return s.render(ctx, model.ScoreKindLanguageTest, rows, format)
}

func (s *export) render(ctx context.Context, kind model.ScoreKind, rows any, format model.ExportFormat) (model.ExportFile, error) {
	if format == "" {
		format = model.ExportFormatCSV
	}
	if !format.IsValid() {
		return model.ExportFile{}, &model.ValidationError{Field: "format", Message: "unsupported export format " + string(format)}
	}

	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.ExportFile{}, err
	}

	if format == model.ExportFormatXLSX {
		data, err = toWorkbook(string(kind), data)
		if err != nil {
			logger.Context(ctx).Error(err)
			return model.ExportFile{}, err
		}
	}

	return model.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", kind, s.now().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// toWorkbook copies CSV records into a single sheet with a bold header row.
func toWorkbook(sheetName string, data []byte) ([]byte, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read csv: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &record); err != nil {
			return nil, err
		}
	}

	if len(records) > 0 {
		header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(sheetName, 1, 1, header); err != nil {
			return nil, err
		}
		if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
