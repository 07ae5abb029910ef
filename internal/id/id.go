// Package id provides unique job title generation for the pipeline binary.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewTitle creates a unique default job title.
// Format: video-<timestamp>-<random>
// Example: video-1701432000-a1b2c3d4
func NewTitle() string {
	timestamp := time.Now().Unix()
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		// Fallback to timestamp only if crypto/rand fails
		return fmt.Sprintf("video-%d", timestamp)
	}
	return fmt.Sprintf("video-%d-%s", timestamp, hex.EncodeToString(random))
}
