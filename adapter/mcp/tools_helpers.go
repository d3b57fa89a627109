package mcp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("project_id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %s", domain.ErrInvalidProjectID, value)
	}
	return id, nil
}
