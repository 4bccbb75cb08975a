package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadhive/superapp/api/internal/entity"
)

// ExcelValidationError indicates that an uploaded workbook is unusable.
type ExcelValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ExcelValidationError) Error() string {
	return e.Message
}

const leadsSheetName = "Leads"

// scheduleLayout is the cell format for the call-schedule column.
const scheduleLayout = time.RFC3339

// excelColumns fixes the column order of the export and the accepted
// header labels on import. The first label of each column is the canonical
// header written on export; the rest are matched case-insensitively when
// reading an uploaded workbook.
var excelColumns = []struct {
	field  string
	labels []string
}{
	{"business_name", []string{"שם עסק", "Business Name", "اسم الشركة", "Название бизнеса"}},
	{"phone", []string{"טלפון", "Phone", "هاتف", "Телефон"}},
	{"email", []string{"מייל", "Email", "بريد إلكتروني", "Эл. почта"}},
	{"address", []string{"כתובת", "Address", "عنوان", "Адрес"}},
	{"category", []string{"קטגוריה", "Category", "فئة", "Категория"}},
	{"status", []string{"סטטוס", "Status", "الحالة", "Статус"}},
	{"notes", []string{"הערות", "Notes", "ملاحظات", "Заметки"}},
	{"call_schedule", []string{"תזמון שיחה", "Call Schedule", "جدولة مكالمات", "График звонков"}},
}

// ExcelService converts leads to and from xlsx workbooks.
type ExcelService struct{}

// NewExcelService creates a new instance of ExcelService.
func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ExportLeads renders the given leads as an xlsx workbook with a single
// "Leads" sheet and the canonical header row.
func (s *ExcelService) ExportLeads(leads []entity.Lead) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(leadsSheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range excelColumns {
		header.AddCell().SetString(col.labels[0])
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		row.AddCell().SetString(lead.BusinessName)
		row.AddCell().SetString(lead.Phone)
		row.AddCell().SetString(lead.Email)
		row.AddCell().SetString(lead.Address)
		row.AddCell().SetString(lead.Category)
		row.AddCell().SetString(lead.Status)
		row.AddCell().SetString(lead.Notes)
		if lead.CallSchedule != nil {
			row.AddCell().SetString(lead.CallSchedule.Format(scheduleLayout))
		} else {
			row.AddCell().SetString("")
		}
	}

	return f, nil
}

// ImportLeads parses the first sheet of an uploaded workbook into leads.
// Columns are matched by any known header label; every row gets a freshly
// generated id. Rows without a business name and phone are skipped.
func (s *ExcelService) ImportLeads(data []byte) ([]entity.Lead, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, ExcelValidationError{Message: "file is not a valid xlsx workbook"}
	}
	if len(f.Sheets) == 0 {
		return nil, ExcelValidationError{Message: "workbook has no sheets"}
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, ExcelValidationError{Message: "sheet is empty"}
	}

	index, err := matchHeader(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var leads []entity.Lead
	for _, row := range sheet.Rows[1:] {
		values := rowValues(row, index)

		name := strings.TrimSpace(values["business_name"])
		phone := strings.TrimSpace(values["phone"])
		if name == "" && phone == "" {
			continue
		}

		status := strings.TrimSpace(values["status"])
		if status == "" {
			status = entity.StatusNew
		}

		lead := entity.Lead{
			ID:           uuid.New(),
			BusinessName: name,
			Phone:        phone,
			Email:        strings.TrimSpace(values["email"]),
			Address:      strings.TrimSpace(values["address"]),
			Category:     strings.TrimSpace(values["category"]),
			Status:       status,
			Notes:        values["notes"],
			Source:       "import",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if raw := strings.TrimSpace(values["call_schedule"]); raw != "" {
			if ts, parseErr := time.Parse(scheduleLayout, raw); parseErr == nil {
				lead.CallSchedule = &ts
			}
		}

		leads = append(leads, lead)
	}

	return leads, nil
}

// matchHeader maps each known field to the column index where one of its
// accepted labels appears. The business name column is mandatory.
func matchHeader(header *xlsx.Row) (map[string]int, error) {
	cells := make([]string, len(header.Cells))
	for i, cell := range header.Cells {
		cells[i] = strings.ToLower(strings.TrimSpace(cell.String()))
	}

	index := make(map[string]int)
	for _, col := range excelColumns {
		for i, cell := range cells {
			if matchesLabel(cell, col.labels) {
				index[col.field] = i
				break
			}
		}
	}

	if _, ok := index["business_name"]; !ok {
		return nil, ExcelValidationError{Message: "missing business name column"}
	}
	return index, nil
}

func matchesLabel(cell string, labels []string) bool {
	for _, label := range labels {
		if cell == strings.ToLower(label) {
			return true
		}
	}
	return false
}

func rowValues(row *xlsx.Row, index map[string]int) map[string]string {
	values := make(map[string]string, len(index))
	for field, i := range index {
		if i < len(row.Cells) {
			values[field] = row.Cells[i].String()
		}
	}
	return values
}
