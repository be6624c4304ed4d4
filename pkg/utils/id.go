package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random identifier of the form "<prefix>_<uuid>".
func GenerateID(prefix string) string {
	if prefix == "" {
		return uuid.New().String()
	}
	return prefix + "_" + uuid.New().String()
}
