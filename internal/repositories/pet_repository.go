package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

// PetRepository defines the interface for pet operations
type PetRepository interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPetByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	GetPetsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Pet, error)
	// ListByOwner returns the owner's pets oldest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	// DeleteCascade removes the pet and every row referencing it atomically
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// PostgresPetRepository implements PetRepository for PostgreSQL
type PostgresPetRepository struct {
	db *gorm.DB
}

// NewPostgresPetRepository creates a new PostgresPetRepository
func NewPostgresPetRepository(db *gorm.DB) *PostgresPetRepository {
	return &PostgresPetRepository{db: db}
}

func (r *PostgresPetRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	if pet.CreatedAt.IsZero() {
		pet.CreatedAt = time.Now()
	}
	return translate("create pet", r.db.WithContext(ctx).Create(pet).Error)
}

func (r *PostgresPetRepository) GetPetByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, translate("get pet", err)
	}
	return &pet, nil
}

func (r *PostgresPetRepository) GetPetsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Pet, error) {
	out := make(map[uuid.UUID]models.Pet, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var pets []models.Pet
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pets).Error; err != nil {
		return nil, translate("get pets", err)
	}
	for _, p := range pets {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PostgresPetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerID).Order("created_at ASC, id ASC").Find(&pets).Error
	return pets, translate("list pets by owner", err)
}

func (r *PostgresPetRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pet models.Pet
		if err := tx.Clauses(lockForUpdate).First(&pet, "id = ?", id).Error; err != nil {
			return err
		}

		var postIDs []uuid.UUID
		if err := tx.Model(&models.Post{}).Where("pet_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		var roomIDs []uuid.UUID
		if err := tx.Model(&models.ChatRoom{}).
			Where("(party_a_id = ? AND party_a_is_user = false) OR (party_b_id = ? AND party_b_is_user = false)", id, id).
			Pluck("id", &roomIDs).Error; err != nil {
			return err
		}

		steps := []struct {
			model any
			query string
			args  []any
		}{
			{&models.StoryView{}, "story_id IN ? OR (viewer_id = ? AND viewer_is_user = false)", []any{orNil(postIDs), id}},
			{&models.Reaction{}, "post_id IN ? OR pet_id = ?", []any{orNil(postIDs), id}},
			{&models.Comment{}, "post_id IN ? OR pet_id = ?", []any{orNil(postIDs), id}},
			{&models.Notification{}, "pet_id = ? OR related_pet_id = ?", []any{id, id}},
			{&models.Follow{}, "target_pet_id = ? OR (follower_id = ? AND is_user_follower = false)", []any{id, id}},
			{&models.ChatMessage{}, "room_id IN ?", []any{orNil(roomIDs)}},
			{&models.ChatRoom{}, "id IN ?", []any{orNil(roomIDs)}},
			{&models.Post{}, "pet_id = ?", []any{id}},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.User{}).Where("selected_pet_id = ?", id).Update("selected_pet_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&pet).Error
	})
	return translate("delete pet", err)
}

// orNil keeps "IN ?" valid for empty id sets
func orNil(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}
