package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"miner-econ-lab/internal/domain"
)

// ComputeRunID computes a deterministic simulation run ID using SHA256.
// Formula: SHA256(miner|mode|start_date|initial_capital)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(miner string, mode domain.AccountingMode, start time.Time, initialCapital float64) string {
	data := fmt.Sprintf("%s|%s|%s|%.8f",
		miner,
		string(mode),
		start.UTC().Format("2006-01-02"),
		initialCapital,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
