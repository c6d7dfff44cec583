package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

// ReportFormatJSON is the only export format rendered by the service
const ReportFormatJSON = "json"

type HealthReportService interface {
	Export(ctx context.Context, user *models.User, req models.ExportHealthReportRequest) (*models.HealthReport, error)
}

type healthReportService struct {
	petRepo    repositories.PetRepository
	healthRepo repositories.HealthRecordRepository
	now        func() time.Time
}

func NewHealthReportService(petRepo repositories.PetRepository, healthRepo repositories.HealthRecordRepository) HealthReportService {
	return &healthReportService{petRepo: petRepo, healthRepo: healthRepo, now: time.Now}
}

func (s *healthReportService) Export(ctx context.Context, user *models.User, req models.ExportHealthReportRequest) (*models.HealthReport, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != ReportFormatJSON {
		return nil, models.Invalid("format", fmt.Sprintf("unsupported format %q", req.Format))
	}
	petID, err := uuid.Parse(req.PetID)
	if err != nil {
		return nil, models.Invalid("petId", "must be a uuid")
	}

	pet, err := s.petRepo.GetPetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerUserID != user.ID {
		return nil, fmt.Errorf("pet %s: %w", petID, models.ErrForbidden)
	}

	records, err := s.healthRepo.GetRecordsByPetID(ctx, pet.ID.String())
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.HealthRecord{}
	}

	return &models.HealthReport{
		Metadata: models.HealthReportMetadata{
			GeneratedAt: s.now().UTC(),
			Format:      format,
			RecordCount: len(records),
		},
		PetInfo: models.HealthReportPet{
			ID:           pet.ID.String(),
			Name:         pet.Name,
			Species:      pet.Species,
			Breed:        pet.Breed,
			Age:          pet.Age,
			GuardianName: pet.GuardianName,
		},
		MedicalHistory: records,
	}, nil
}
