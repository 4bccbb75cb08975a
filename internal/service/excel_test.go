package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadhive/superapp/api/internal/entity"
)

func workbookBytes(t *testing.T, f *xlsx.File) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExportLeads_Header(t *testing.T) {
	svc := NewExcelService()

	f, err := svc.ExportLeads(nil)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Leads", f.Sheets[0].Name)

	require.NotEmpty(t, f.Sheets[0].Rows)
	header := f.Sheets[0].Rows[0]
	require.Len(t, header.Cells, 8)
	assert.Equal(t, "שם עסק", header.Cells[0].String())
	assert.Equal(t, "טלפון", header.Cells[1].String())
	assert.Equal(t, "תזמון שיחה", header.Cells[7].String())
}

func TestExportImport_RoundTrip(t *testing.T) {
	svc := NewExcelService()

	schedule := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	original := []entity.Lead{
		{
			BusinessName: "Cafe Aroma",
			Phone:        "03-1234567",
			Email:        "info@aroma.co.il",
			Address:      "Dizengoff 99, Tel Aviv",
			Category:     "cafe",
			Status:       "in progress",
			Notes:        "call after lunch",
			CallSchedule: &schedule,
		},
		{
			BusinessName: "Pizza Roma",
			Phone:        "050-1234567",
			Status:       "new",
		},
	}

	f, err := svc.ExportLeads(original)
	require.NoError(t, err)

	imported, err := svc.ImportLeads(workbookBytes(t, f))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	assert.Equal(t, "Cafe Aroma", imported[0].BusinessName)
	assert.Equal(t, "03-1234567", imported[0].Phone)
	assert.Equal(t, "info@aroma.co.il", imported[0].Email)
	assert.Equal(t, "Dizengoff 99, Tel Aviv", imported[0].Address)
	assert.Equal(t, "cafe", imported[0].Category)
	assert.Equal(t, "in progress", imported[0].Status)
	assert.Equal(t, "call after lunch", imported[0].Notes)
	require.NotNil(t, imported[0].CallSchedule)
	assert.True(t, schedule.Equal(*imported[0].CallSchedule))

	assert.Equal(t, "Pizza Roma", imported[1].BusinessName)
	assert.Nil(t, imported[1].CallSchedule)

	assert.NotEqual(t, uuid.Nil, imported[0].ID)
	assert.NotEqual(t, imported[0].ID, imported[1].ID)
}

func TestImportLeads_EnglishHeaders(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, label := range []string{"Business Name", "Phone", "Email"} {
		header.AddCell().SetString(label)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("Blue Bakery")
	row.AddCell().SetString("02-9876543")
	row.AddCell().SetString("hello@blue.example")

	svc := NewExcelService()
	leads, err := svc.ImportLeads(workbookBytes(t, f))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Blue Bakery", leads[0].BusinessName)
	assert.Equal(t, "02-9876543", leads[0].Phone)
	assert.Equal(t, "hello@blue.example", leads[0].Email)
	assert.Equal(t, entity.StatusNew, leads[0].Status)
	assert.Equal(t, "import", leads[0].Source)
}

func TestImportLeads_SkipsBlankRows(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	header.AddCell().SetString("שם עסק")
	header.AddCell().SetString("טלפון")

	row := sheet.AddRow()
	row.AddCell().SetString("")
	row.AddCell().SetString("")

	row = sheet.AddRow()
	row.AddCell().SetString("Real Business")
	row.AddCell().SetString("050-0000000")

	svc := NewExcelService()
	leads, err := svc.ImportLeads(workbookBytes(t, f))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Real Business", leads[0].BusinessName)
}

func TestImportLeads_MissingBusinessNameColumn(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	sheet.AddRow().AddCell().SetString("Unrelated")

	svc := NewExcelService()
	_, err = svc.ImportLeads(workbookBytes(t, f))
	var valErr ExcelValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Message, "business name")
}

func TestImportLeads_NotAWorkbook(t *testing.T) {
	svc := NewExcelService()
	_, err := svc.ImportLeads([]byte("definitely not xlsx"))
	var valErr ExcelValidationError
	require.ErrorAs(t, err, &valErr)
}
