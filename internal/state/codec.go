// Package state defines the versioned on-disk shape of the draft engine's
// persisted record: a single JSON envelope holding the active draft (if any)
// and the saved-workout history.
package state

import (
	"encoding/json"
	"log"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
)

// CurrentVersion tags the envelope schema. Bump it together with an entry in
// the migrations table whenever the persisted shape changes.
const CurrentVersion = 1

// Persisted is the durable record: at most one active draft plus the
// finalized history, most recent first.
type Persisted struct {
	Version int                   `json:"version"`
	Draft   *domain.WorkoutDraft  `json:"draft"`
	History []domain.WorkoutSaved `json:"history"`
}

// migrations maps an older schema version to a function that rewrites its
// payload into the next version. Decode applies them in sequence until the
// payload reaches CurrentVersion.
var migrations = map[int]func([]byte) ([]byte, int, error){}

// Encode serializes a snapshot under the current schema version.
func Encode(draft *domain.WorkoutDraft, history []domain.WorkoutSaved) ([]byte, error) {
	return json.Marshal(Persisted{
		Version: CurrentVersion,
		Draft:   draft,
		History: history,
	})
}

// Decode rehydrates a persisted record. It fails closed: malformed payloads
// and schema versions with no migration path both decode to the empty state
// rather than surfacing a parse error to the caller.
func Decode(payload []byte) (*domain.WorkoutDraft, []domain.WorkoutSaved) {
	if len(payload) == 0 {
		return nil, nil
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		log.Printf("WARN: Discarding malformed persisted state: %v", err)
		return nil, nil
	}

	version := probe.Version
	for version != CurrentVersion {
		migrate, ok := migrations[version]
		if !ok {
			log.Printf("WARN: Discarding persisted state with unsupported schema version %d", version)
			return nil, nil
		}
		next, nextVersion, err := migrate(payload)
		if err != nil {
			log.Printf("WARN: Discarding persisted state; migration from version %d failed: %v", version, err)
			return nil, nil
		}
		payload, version = next, nextVersion
	}

	var record Persisted
	if err := json.Unmarshal(payload, &record); err != nil {
		log.Printf("WARN: Discarding malformed persisted state: %v", err)
		return nil, nil
	}
	return record.Draft, record.History
}
