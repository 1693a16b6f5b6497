package domain

// WorkoutDraft is the single in-progress session. PausedAt nil means the
// timer is running. LastActionAt is refreshed on every successful mutation
// and backs the "autosaved at ..." affordance.
type WorkoutDraft struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	StartedAt    int64         `json:"startedAt"` // ms epoch
	PausedAt     *int64        `json:"pausedAt,omitempty"`
	LastActionAt int64         `json:"lastActionAt"`
	Items        []WorkoutItem `json:"items"`
}

// Clone returns a deep copy of the draft.
func (d *WorkoutDraft) Clone() *WorkoutDraft {
	if d == nil {
		return nil
	}
	out := *d
	if d.PausedAt != nil {
		p := *d.PausedAt
		out.PausedAt = &p
	}
	out.Items = CloneItems(d.Items)
	return &out
}

// WorkoutSaved is an immutable finalized session. Saved records are prepended
// to history most-recent-first and never mutated in place.
type WorkoutSaved struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	StartedAt int64         `json:"startedAt"`
	EndedAt   int64         `json:"endedAt"`
	Items     []WorkoutItem `json:"items"`
}
