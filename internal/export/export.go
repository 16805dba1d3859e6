// Package export renders the booking calendar as an Excel grid:
// courts as rows, dates as columns.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sher-V/play-today-admin/internal/config"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Расписание"

// BookingLister supplies the bookings of a date range grouped by day.
type BookingLister interface {
	DailyBookings(ctx context.Context, start, end models.Date) (map[models.Date][]models.Booking, error)
}

// CourtLister supplies the courts in display order.
type CourtLister interface {
	GetCourts(ctx context.Context) ([]models.Court, error)
}

type Exporter struct {
	bookings BookingLister
	courts   CourtLister
	cfg      config.ExportConfig
	logger   *zerolog.Logger
}

func NewExporter(bookings BookingLister, courts CourtLister, cfg config.ExportConfig, logger *zerolog.Logger) *Exporter {
	return &Exporter{bookings: bookings, courts: courts, cfg: cfg, logger: logger}
}

// Generate builds the schedule workbook for the inclusive date range.
// The caller owns the returned file and must Close it.
func (e *Exporter) Generate(ctx context.Context, startDate, endDate models.Date) (*excelize.File, error) {
	if !startDate.Valid() || !endDate.Valid() || endDate < startDate {
		return nil, fmt.Errorf("invalid export range %s - %s", startDate, endDate)
	}

	dailyBookings, err := e.bookings.DailyBookings(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("error getting bookings: %v", err)
	}

	courts, err := e.courts.GetCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting courts: %v", err)
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s", startDate, endDate))

	dateCols, err := e.writeDateHeaders(f, startDate, endDate)
	if err != nil {
		f.Close()
		return nil, err
	}
	e.writeCourtHeaders(f, courts)
	e.writeBookingData(f, dailyBookings, courts, dateCols)

	// Ширина колонок
	_ = f.SetColWidth(sheetName, "A", "A", 25)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(sheetName, string(i), string(i), 22)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

// ExportSchedule renders the range and saves the workbook under the
// configured export path, returning the file path.
func (e *Exporter) ExportSchedule(ctx context.Context, startDate, endDate models.Date) (string, error) {
	if err := os.MkdirAll(e.cfg.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := e.Generate(ctx, startDate, endDate)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx", startDate, endDate)
	filePath := filepath.Join(e.cfg.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) writeDateHeaders(f *excelize.File, startDate, endDate models.Date) (map[models.Date]int, error) {
	col := 2
	dateCols := make(map[models.Date]int)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for d := startDate; d <= endDate; {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, string(d))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		dateCols[d] = col

		next, err := d.AddDays(1)
		if err != nil {
			return nil, err
		}
		d = next
		col++
	}
	return dateCols, nil
}

func (e *Exporter) writeCourtHeaders(f *excelize.File, courts []models.Court) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, court := range courts {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, court.Name)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
		row++
	}
}

func (e *Exporter) writeBookingData(
	f *excelize.File,
	dailyBookings map[models.Date][]models.Booking,
	courts []models.Court,
	dateCols map[models.Date]int,
) {
	// Обходим все даты диапазона: дни без броней тоже получают ячейку
	for date, col := range dateCols {
		byCourt := make(map[int64][]models.Booking)
		for _, booking := range dailyBookings[date] {
			if booking.IsCanceled() {
				continue
			}
			byCourt[booking.CourtID] = append(byCourt[booking.CourtID], booking)
		}

		row := 3
		for _, court := range courts {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			courtBookings := byCourt[court.ID]

			var cellValue string
			for _, booking := range courtBookings {
				cellValue += fmt.Sprintf("%s %s-%s %s\n",
					statusIcon(booking.Status), booking.StartTime, booking.EndTime, booking.ClientName)
				if booking.Comment != "" {
					cellValue += fmt.Sprintf("   💬 %s\n", booking.Comment)
				}
			}
			if cellValue == "" {
				cellValue = "Свободно"
			}

			_ = f.SetCellValue(sheetName, cell, cellValue)
			if styleID, err := cellStyle(f, courtBookings); err == nil {
				_ = f.SetCellStyle(sheetName, cell, cell, styleID)
			}
			row++
		}
	}
}

func statusIcon(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "✅"
	case models.StatusHold:
		return "⏳"
	default:
		return "❓"
	}
}

// cellStyle colors the cell by the day's worst status: empty days stay
// white, unconfirmed holds are yellow, fully confirmed days green.
func cellStyle(f *excelize.File, bookings []models.Booking) (int, error) {
	alignment := &excelize.Alignment{
		Horizontal: "left",
		Vertical:   "top",
		WrapText:   true,
	}

	if len(bookings) == 0 {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFFFFF"}, Pattern: 1},
			Alignment: alignment,
		})
	}

	for _, booking := range bookings {
		if booking.Status == models.StatusHold {
			return f.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
				Alignment: alignment,
			})
		}
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
		Alignment: alignment,
	})
}
