// Package snapshot serializes the entire relational store to a single
// byte blob and back. The blob is what lives under the durable storage
// key; it is a derived artifact, fully rebuilt on every save and fully
// replayed into a fresh schema on load.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/db"
)

// Key is the fixed storage key the serialized store is persisted under.
const Key = "skillSwapperDB"

// Data is the on-disk shape of a snapshot: every row of every table plus
// a revision id and save timestamp for debugging stale-state reports.
type Data struct {
	Revision     string           `json:"revision"`
	SavedAt      time.Time        `json:"savedAt"`
	Users        []db.User        `json:"users"`
	Skills       []db.Skill       `json:"skills"`
	UserSkills   []db.UserSkill   `json:"userSkills"`
	SwapRequests []db.SwapRequest `json:"swapRequests"`
	ActiveSwaps  []db.ActiveSwap  `json:"activeSwaps"`
	Activities   []db.Activity    `json:"activities"`
}

// Export reads every table into a Data value ready for encoding.
// Rows are ordered by id so identical stores produce identical snapshots.
func Export(gdb *gorm.DB) (*Data, error) {
	data := &Data{
		Revision: uuid.NewString(),
		SavedAt:  time.Now().UTC(),
	}

	if err := gdb.Order("id").Find(&data.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if err := gdb.Order("id").Find(&data.Skills).Error; err != nil {
		return nil, fmt.Errorf("failed to export skills: %w", err)
	}
	if err := gdb.Order("id").Find(&data.UserSkills).Error; err != nil {
		return nil, fmt.Errorf("failed to export user skills: %w", err)
	}
	if err := gdb.Order("id").Find(&data.SwapRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to export swap requests: %w", err)
	}
	if err := gdb.Order("id").Find(&data.ActiveSwaps).Error; err != nil {
		return nil, fmt.Errorf("failed to export active swaps: %w", err)
	}
	if err := gdb.Order("id").Find(&data.Activities).Error; err != nil {
		return nil, fmt.Errorf("failed to export activities: %w", err)
	}

	return data, nil
}

// Import replays a snapshot into an already-migrated, empty store.
// Inserts keep their original ids; parents go in before children.
func Import(gdb *gorm.DB, data *Data) error {
	if len(data.Users) > 0 {
		if err := gdb.Create(&data.Users).Error; err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
	}
	if len(data.Skills) > 0 {
		if err := gdb.Create(&data.Skills).Error; err != nil {
			return fmt.Errorf("failed to import skills: %w", err)
		}
	}
	if len(data.UserSkills) > 0 {
		if err := gdb.Create(&data.UserSkills).Error; err != nil {
			return fmt.Errorf("failed to import user skills: %w", err)
		}
	}
	if len(data.SwapRequests) > 0 {
		if err := gdb.Create(&data.SwapRequests).Error; err != nil {
			return fmt.Errorf("failed to import swap requests: %w", err)
		}
	}
	if len(data.ActiveSwaps) > 0 {
		if err := gdb.Create(&data.ActiveSwaps).Error; err != nil {
			return fmt.Errorf("failed to import active swaps: %w", err)
		}
	}
	if len(data.Activities) > 0 {
		if err := gdb.Create(&data.Activities).Error; err != nil {
			return fmt.Errorf("failed to import activities: %w", err)
		}
	}
	return nil
}

// Encode converts a snapshot into the byte form stored under Key.
func Encode(data *Data) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses stored snapshot bytes. Callers treat a decode failure the
// same as an absent snapshot and fall back to a fresh seeded schema.
func Decode(b []byte) (*Data, error) {
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &data, nil
}
