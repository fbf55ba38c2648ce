package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kinovera/festival/api/internal/model"
)

func TestExportRegistrationsCSV(t *testing.T) {
	notes := "vip, seat in front row"
	regRepo := &mockRegistrationRepo{
		listByActivityFunc: func(ctx context.Context, activityID string, filters model.RegistrationFilters) ([]*model.Registration, error) {
			return []*model.Registration{
				{
					TrackingCode: "AB12CD34",
					Name:         `Nikos "Nick" Papadopoulos`,
					Email:        "nikos@example.com",
					Phone:        "+30 210 1234567",
					Category:     "press",
					Status:       model.RegistrationStatusRegistered,
					Notes:        &notes,
					CreatedOn:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	actRepo := &mockActivityRepo{
		getFunc: func(ctx context.Context, activityID string) (*model.Activity, error) {
			return &model.Activity{ID: activityID, Name: "Opening Night"}, nil
		},
	}
	svc := NewExportService(regRepo, actRepo)

	export, err := svc.ExportRegistrations(context.Background(), "activity:1", ExportFormatCSV, model.RegistrationFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if export.ContentType != "text/csv" {
		t.Errorf("expected text/csv, got %s", export.ContentType)
	}
	if !strings.HasSuffix(export.Filename, ".csv") {
		t.Errorf("expected .csv filename, got %s", export.Filename)
	}

	rows, err := csv.NewReader(bytes.NewReader(export.Data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not parseable CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "tracking_code" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// Quotes and commas in fields must survive the round trip.
	if rows[1][1] != `Nikos "Nick" Papadopoulos` {
		t.Errorf("name not preserved: %q", rows[1][1])
	}
	if rows[1][9] != notes {
		t.Errorf("notes not preserved: %q", rows[1][9])
	}
}

func TestExportAlternateFormatsCarryCSVPayload(t *testing.T) {
	actRepo := &mockActivityRepo{
		getFunc: func(ctx context.Context, activityID string) (*model.Activity, error) {
			return &model.Activity{ID: activityID}, nil
		},
	}
	svc := NewExportService(&mockRegistrationRepo{}, actRepo)

	for format, contentType := range map[string]string{
		ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		ExportFormatPDF:  "application/pdf",
	} {
		export, err := svc.ExportRegistrations(context.Background(), "activity:1", format, model.RegistrationFilters{})
		if err != nil {
			t.Fatalf("format %s: unexpected error: %v", format, err)
		}
		if export.ContentType != contentType {
			t.Errorf("format %s: got content type %s", format, export.ContentType)
		}
		if !strings.HasSuffix(export.Filename, "."+format) {
			t.Errorf("format %s: got filename %s", format, export.Filename)
		}
		if _, err := csv.NewReader(bytes.NewReader(export.Data)).ReadAll(); err != nil {
			t.Errorf("format %s: payload is not CSV: %v", format, err)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockRegistrationRepo{}, &mockActivityRepo{})

	_, err := svc.ExportRegistrations(context.Background(), "activity:1", "docx", model.RegistrationFilters{})
	if !errors.Is(err, ErrUnknownExportFormat) {
		t.Errorf("expected ErrUnknownExportFormat, got %v", err)
	}
}
