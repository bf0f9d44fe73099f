package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportFile - готовый к отдаче файл выгрузки.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService строит плоскую выгрузку выборок для скачивания.
// Это проекция поверх SelectionService: флаг взаимности берётся из того же
// резолвера, что и живой дашборд, а не выводится заново своей логикой.
type ExportService interface {
	ExportSelections(ctx context.Context, eventID *string, format ExportFormat) (*ExportFile, error)
}

type exportService struct {
	selectionService SelectionService
}

func NewExportService(selectionService SelectionService) ExportService {
	return &exportService{selectionService: selectionService}
}

var exportHeaders = []string{
	"Selector Number", "Selector Name", "Selector Gender", "Selector Email", "Selector Phone",
	"Selected Number", "Selected Name", "Selected Gender", "Selected Email", "Selected Phone",
	"Mutual Match", "Selection Date",
}

func (s *exportService) ExportSelections(ctx context.Context, eventID *string, format ExportFormat) (*ExportFile, error) {
	listing, err := s.selectionService.ListAllSelections(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selections for export: %w", err)
	}

	rows := make([][]string, 0, len(listing.Selections))
	for _, sel := range listing.Selections {
		rows = append(rows, exportRow(sel))
	}

	date := time.Now().Format("2006-01-02")
	switch format {
	case ExportFormatXLSX:
		data, err := buildXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("selections-%s.xlsx", date),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case ExportFormatCSV, "":
		data, err := buildCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("selections-%s.csv", date),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		return nil, ErrValidationFailed
	}
}

func exportRow(sel *models.Selection) []string {
	mutual := "No"
	if sel.IsMutual {
		mutual = "Yes"
	}
	return []string{
		strconv.Itoa(sel.Selector.ParticipantNumber),
		sel.Selector.FullName,
		string(sel.Selector.Gender),
		sel.Selector.Email,
		sel.Selector.Phone,
		strconv.Itoa(sel.Selected.ParticipantNumber),
		sel.Selected.FullName,
		string(sel.Selected.Gender),
		sel.Selected.Email,
		sel.Selected.Phone,
		mutual,
		sel.CreatedAt.Format(time.RFC3339),
	}
}

func buildCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func buildXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Selections"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build xlsx header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set xlsx header: %w", err)
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build xlsx cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set xlsx cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
