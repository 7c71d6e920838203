package export

import (
	"fmt"
	"time"

	"ddarch/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet = "Bookings"
	contactsSheet = "Contacts"
)

// Workbook builds the staff export with one sheet per record kind. The
// caller owns the returned file and must Close it.
func Workbook(bookings []models.Booking, contacts []models.Contact) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeBookings(f, bookings); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeContacts(f, contacts); err != nil {
		f.Close()
		return nil, err
	}

	// Drop the default sheet and land on the bookings view.
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(bookingsSheet); err == nil {
		f.SetActiveSheet(index)
	}

	return f, nil
}

func writeBookings(f *excelize.File, bookings []models.Booking) error {
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return fmt.Errorf("create bookings sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Email", "Phone", "Project Type", "Date", "Time", "Message", "Created At"}
	if err := writeHeaderRow(f, bookingsSheet, headers); err != nil {
		return err
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID, b.Name, b.Email, b.Phone, b.ProjectType, b.Date, b.Time, b.Message,
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := writeRow(f, bookingsSheet, row, values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(bookingsSheet, "B", "C", 25)
	_ = f.SetColWidth(bookingsSheet, "H", "I", 30)
	return nil
}

func writeContacts(f *excelize.File, contacts []models.Contact) error {
	if _, err := f.NewSheet(contactsSheet); err != nil {
		return fmt.Errorf("create contacts sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Email", "Subject", "Message", "Created At"}
	if err := writeHeaderRow(f, contactsSheet, headers); err != nil {
		return err
	}

	for i, c := range contacts {
		row := i + 2
		values := []any{
			c.ID, c.Name, c.Email, c.Subject, c.Message,
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := writeRow(f, contactsSheet, row, values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(contactsSheet, "B", "C", 25)
	_ = f.SetColWidth(contactsSheet, "D", "F", 30)
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", header, err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}
