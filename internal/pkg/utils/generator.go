package utils

import (
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateRerunToken issues the monotonic-per-request token the rerun
// coordinator uses to discard stale responses.
func GenerateRerunToken() string {
	return uuid.NewString()
}
