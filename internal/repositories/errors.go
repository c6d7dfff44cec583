package repositories

import (
	"errors"
	"fmt"

	"github.com/pawprint-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// translate maps store errors onto the models error taxonomy. gorm must be
// opened with TranslateError so unique violations surface as ErrDuplicatedKey.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrConflict):
		return err
	}
	return models.Dependency(op, err)
}
