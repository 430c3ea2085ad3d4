package utils

import (
	"github.com/google/uuid"
	"strings"
)

func UUIDv4NoDash() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// MultipartBoundary returns a fresh form-data boundary, one per upload.
func MultipartBoundary() string {
	return "-------------" + uuid.New().String()
}
