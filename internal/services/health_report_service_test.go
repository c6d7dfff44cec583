package services_test

import (
	"testing"
	"time"

	"github.com/pawprint-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHealthReport(t *testing.T) {
	f := newFixture(t)
	ana := f.guardian("ana")
	rex := f.pet(ana, "Rex")

	f.store.AddHealthRecord(models.HealthRecord{PetID: rex.ID.String(), Kind: "checkup", Title: "Annual", OccurredAt: t0.Add(48 * time.Hour)})
	f.store.AddHealthRecord(models.HealthRecord{PetID: rex.ID.String(), Kind: "vaccine", Title: "Rabies", OccurredAt: t0})

	report, err := f.svc.HealthReports.Export(f.ctx, ana, models.ExportHealthReportRequest{PetID: rex.ID.String(), Format: "JSON"})
	require.NoError(t, err)
	assert.Equal(t, "json", report.Metadata.Format)
	assert.Equal(t, 2, report.Metadata.RecordCount)
	assert.Equal(t, "Rex", report.PetInfo.Name)
	assert.Equal(t, "ana", report.PetInfo.GuardianName)
	require.Len(t, report.MedicalHistory, 2)
	assert.Equal(t, "Rabies", report.MedicalHistory[0].Title)
	assert.Equal(t, "Annual", report.MedicalHistory[1].Title)
}

func TestExportHealthReportWithoutRecords(t *testing.T) {
	f := newFixture(t)
	ana := f.guardian("ana")
	rex := f.pet(ana, "Rex")

	report, err := f.svc.HealthReports.Export(f.ctx, ana, models.ExportHealthReportRequest{PetID: rex.ID.String(), Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, report.MedicalHistory)
	assert.Empty(t, report.MedicalHistory)
}

func TestExportHealthReportRejections(t *testing.T) {
	f := newFixture(t)
	ana := f.guardian("ana")
	rex := f.pet(ana, "Rex")
	ben := f.guardian("ben")

	_, err := f.svc.HealthReports.Export(f.ctx, ana, models.ExportHealthReportRequest{PetID: rex.ID.String(), Format: "pdf"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.HealthReports.Export(f.ctx, ana, models.ExportHealthReportRequest{PetID: "not-a-uuid", Format: "json"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.HealthReports.Export(f.ctx, ben, models.ExportHealthReportRequest{PetID: rex.ID.String(), Format: "json"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}
