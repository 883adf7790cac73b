package pricing

import (
	"github.com/google/uuid"

	"offerta-backend/domain"
)

func parseUserID(userID string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	return parsed, nil
}
