package postgres

import (
	"fmt"

	"github.com/google/uuid"
)

// newID は時系列順に並ぶ UUIDv7 文字列を生成します。
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("postgres: generate id: %w", err)
	}
	return id.String(), nil
}
