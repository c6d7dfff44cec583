package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthRecord is a medical history entry stored in MongoDB
type HealthRecord struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PetID      string             `json:"pet_id" bson:"pet_id"`
	Kind       string             `json:"kind" bson:"kind"` // vaccine, checkup, treatment, ...
	Title      string             `json:"title" bson:"title"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	VetName    string             `json:"vet_name,omitempty" bson:"vet_name,omitempty"`
	OccurredAt time.Time          `json:"occurred_at" bson:"occurred_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// ExportHealthReportRequest is the body of POST /export-health-report
type ExportHealthReportRequest struct {
	PetID  string `json:"petId" validate:"required,uuid"`
	Format string `json:"format" validate:"required"`
}

// HealthReport is the exported document
type HealthReport struct {
	Metadata       HealthReportMetadata `json:"metadata"`
	PetInfo        HealthReportPet      `json:"pet_info"`
	MedicalHistory []HealthRecord       `json:"medical_history"`
}

type HealthReportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Format      string    `json:"format"`
	RecordCount int       `json:"record_count"`
}

type HealthReportPet struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Species      string `json:"species"`
	Breed        string `json:"breed"`
	Age          int    `json:"age"`
	GuardianName string `json:"guardian_name"`
}
