package repositories

import (
	"context"

	"github.com/pawprint-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HealthRecordRepository reads the medical history documents of a pet
type HealthRecordRepository interface {
	GetRecordsByPetID(ctx context.Context, petID string) ([]models.HealthRecord, error)
	DeleteRecordsByPetID(ctx context.Context, petID string) error
}

// MongoHealthRecordRepository implements HealthRecordRepository for MongoDB
type MongoHealthRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoHealthRecordRepository creates a new MongoHealthRecordRepository
func NewMongoHealthRecordRepository(db *mongo.Database) *MongoHealthRecordRepository {
	return &MongoHealthRecordRepository{collection: db.Collection("health_records")}
}

// GetRecordsByPetID returns the pet's records in chronological order
func (r *MongoHealthRecordRepository) GetRecordsByPetID(ctx context.Context, petID string) ([]models.HealthRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"pet_id": petID}, opts)
	if err != nil {
		return nil, translate("find health records", err)
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, translate("decode health records", err)
	}
	return records, nil
}

// DeleteRecordsByPetID removes every record of a pet
func (r *MongoHealthRecordRepository) DeleteRecordsByPetID(ctx context.Context, petID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"pet_id": petID})
	return translate("delete health records", err)
}
