package usecase

import (
	"github.com/google/uuid"

	"github.com/bnema/lexgrid/internal/domain/entity"
)

// IDGenerator is a function type for generating unique IDs.
type IDGenerator = entity.IDGenerator

// NewIDGenerator returns a generator producing random UUID strings.
func NewIDGenerator() IDGenerator {
	return uuid.NewString
}
