package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/kinovera/festival/api/internal/model"
)

// Export formats. xlsx and pdf are accepted but currently produce CSV
// content under the requested extension; real conversion lives elsewhere
// in the pipeline.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

// Export is a rendered export file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders registration and activity exports
type ExportService struct {
	registrations RegistrationRepositoryInterface
	activities    ActivityRepositoryInterface
}

// NewExportService creates a new export service
func NewExportService(registrations RegistrationRepositoryInterface, activities ActivityRepositoryInterface) *ExportService {
	return &ExportService{registrations: registrations, activities: activities}
}

// ExportRegistrations renders one activity's registrations in the given
// format.
func (s *ExportService) ExportRegistrations(ctx context.Context, activityID, format string, filters model.RegistrationFilters) (*Export, error) {
	if err := validExportFormat(format); err != nil {
		return nil, err
	}

	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	regs, err := s.registrations.ListByActivity(ctx, activityID, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"tracking_code", "name", "transliterated_name", "email", "phone", "category", "occupation", "organization", "status", "notes", "registered_on"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, reg := range regs {
		row := []string{
			reg.TrackingCode,
			reg.Name,
			derefString(reg.TransliteratedName),
			reg.Email,
			reg.Phone,
			reg.Category,
			derefString(reg.Occupation),
			derefString(reg.Organization),
			reg.Status,
			derefString(reg.Notes),
			reg.CreatedOn.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}

	return &Export{
		Filename:    fmt.Sprintf("registrations_%s_%s.%s", activityID, time.Now().Format("20060102"), format),
		ContentType: exportContentType(format),
		Data:        buf.Bytes(),
	}, nil
}

// ExportActivities renders the full activity list in the given format.
func (s *ExportService) ExportActivities(ctx context.Context, format string) (*Export, error) {
	if err := validExportFormat(format); err != nil {
		return nil, err
	}

	activities, err := s.activities.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "event_date", "start_time", "end_time", "venue", "status", "visibility", "capacity", "registered_count", "view_count"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, a := range activities {
		row := []string{
			a.ID,
			a.Name,
			a.EventDate.Format("2006-01-02"),
			a.StartTime,
			a.EndTime,
			a.Venue.Name,
			a.Status,
			a.Visibility,
			strconv.Itoa(a.Capacity),
			strconv.Itoa(a.RegisteredCount),
			strconv.Itoa(a.ViewCount),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}

	return &Export{
		Filename:    fmt.Sprintf("activities_%s.%s", time.Now().Format("20060102"), format),
		ContentType: exportContentType(format),
		Data:        buf.Bytes(),
	}, nil
}

func validExportFormat(format string) error {
	switch format {
	case ExportFormatCSV, ExportFormatXLSX, ExportFormatPDF:
		return nil
	}
	return ErrUnknownExportFormat
}

func exportContentType(format string) string {
	switch format {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatPDF:
		return "application/pdf"
	}
	return "text/csv"
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
