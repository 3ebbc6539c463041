package calculator

import (
	"fmt"

	"github.com/mmynk/imfoot/internal/models"
)

// ResolveDirection maps a category to its money-flow direction.
// Matchmaking events are payable (the platform collected the fee and owes the
// host); every other known category is receivable (the host collected and owes
// the platform its commission). Unknown categories are an error.
func ResolveDirection(category models.Category) (models.Direction, error) {
	switch category {
	case models.CategoryMatchmaking:
		return models.DirectionPayable, nil
	case models.CategoryNetworking,
		models.CategoryTourRecruit,
		models.CategoryTourReport,
		models.CategoryLecture:
		return models.DirectionReceivable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}
