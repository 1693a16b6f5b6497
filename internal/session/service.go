package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/state"

	"github.com/google/uuid"
)

// How long a background state write may take before it is abandoned.
const persistTimeout = 10 * time.Second

// SessionService is the only mutator of draft/history state. Operations are
// total functions over the current state: an unknown id or a missing draft is
// a no-op signaled by a false/empty return, never an error. Every successful
// mutation refreshes the draft's lastActionAt and schedules an asynchronous
// persist of the full state record.
type SessionService interface {
	// Load rehydrates the last persisted state. It must complete before any
	// other method is called; a missing record leaves the service empty.
	Load(ctx context.Context) error
	// Close flushes the final state and stops the background writer.
	Close()

	StartDraft(name string) string
	SetDraftName(name string) bool
	Draft() *domain.WorkoutDraft
	History() []domain.WorkoutSaved

	AddExercise(name, libraryID, exerciseType string) string
	AddNote(text string) string
	AddCustom(text string) string
	UpdateItem(id string, patch domain.ItemPatch) bool
	CompleteItem(id string) bool
	DeleteItem(id string) bool
	GetExercise(exerciseID string) *domain.WorkoutItem

	AddExerciseSet(exerciseID string, weight domain.OptionalFloat, reps domain.OptionalInt) string
	UpdateExerciseSet(exerciseID, setID string, patch domain.SetPatch) bool
	AddExerciseGeneralNote(exerciseID, text string) string
	UpdateExerciseGeneralNote(exerciseID, noteID, text string) bool
	RemoveExerciseGeneralNote(exerciseID, noteID string) bool
	AddExerciseSetNote(exerciseID, setID, text string) string
	UpdateExerciseSetNote(exerciseID, setID, noteID, text string) bool
	RemoveExerciseSetNote(exerciseID, setID, noteID string) bool

	UndoLastAction() bool
	ElapsedSeconds() int64
	Pause() bool
	Resume() bool
	FinishAndSave() string
	ClearDraft()
	ClearHistory()
}

// sessionService implements SessionService. A single mutex serializes all
// operations; persistence happens on a separate goroutine so storage latency
// or failure never blocks the mutation path.
type sessionService struct {
	mu        sync.Mutex
	now       Clock
	stateRepo repository.StateRepository

	draft   *domain.WorkoutDraft
	history []domain.WorkoutSaved

	dirty   chan struct{}
	quit    chan struct{}
	flushed chan struct{}
}

// NewSessionService creates a session service persisting through stateRepo.
func NewSessionService(stateRepo repository.StateRepository, opts ...Option) SessionService {
	s := &sessionService{
		now:       SystemClock,
		stateRepo: stateRepo,
		dirty:     make(chan struct{}, 1),
		quit:      make(chan struct{}),
		flushed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.flushLoop()
	return s
}

// Load rehydrates draft and history from the state repository.
func (s *sessionService) Load(ctx context.Context) error {
	payload, err := s.stateRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	draft, history := state.Decode(payload)
	s.mu.Lock()
	s.draft = draft
	s.history = history
	s.mu.Unlock()
	return nil
}

// Close performs a final synchronous flush and stops the writer goroutine.
func (s *sessionService) Close() {
	close(s.quit)
	<-s.flushed
}

// flushLoop writes the latest state whenever a mutation marks it dirty.
// Coalescing through a one-slot channel means a burst of mutations produces
// one write of the final state, and a failed write is retried by whichever
// mutation comes next.
func (s *sessionService) flushLoop() {
	defer close(s.flushed)
	for {
		select {
		case <-s.dirty:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *sessionService) flush() {
	s.mu.Lock()
	payload, err := state.Encode(s.draft, s.history)
	s.mu.Unlock()
	if err != nil {
		log.Printf("ERROR: Failed to encode session state: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.stateRepo.Save(ctx, payload); err != nil {
		// The mutation is already applied in memory; the next write retries.
		log.Printf("ERROR: Failed to persist session state: %v", err)
	}
}

// markDirty schedules an asynchronous persist. Callers hold s.mu.
func (s *sessionService) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// touch refreshes lastActionAt and marks the state dirty. Callers hold s.mu
// and have already applied their mutation.
func (s *sessionService) touch() {
	if s.draft != nil {
		s.draft.LastActionAt = s.now()
	}
	s.markDirty()
}

// --- Draft lifecycle ---

// StartDraft replaces any existing draft with a fresh one. A prior unsaved
// draft is discarded, not merged.
func (s *sessionService) StartDraft(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.draft = &domain.WorkoutDraft{
		ID:           uuid.NewString(),
		Name:         name,
		StartedAt:    now,
		LastActionAt: now,
		Items:        []domain.WorkoutItem{},
	}
	s.markDirty()
	return s.draft.ID
}

// SetDraftName renames the active draft.
func (s *sessionService) SetDraftName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return false
	}
	s.draft.Name = name
	s.touch()
	return true
}

// Draft returns a deep copy of the active draft, or nil when none is active.
func (s *sessionService) Draft() *domain.WorkoutDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// History returns the saved workouts, most recent first.
func (s *sessionService) History() []domain.WorkoutSaved {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WorkoutSaved(nil), s.history...)
}

// --- Top-level items ---

// AddExercise appends an in-progress exercise item and returns its id.
func (s *sessionService) AddExercise(name, libraryID, exerciseType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return ""
	}
	item := domain.WorkoutItem{
		ID:        uuid.NewString(),
		Kind:      domain.ItemKindExercise,
		CreatedAt: s.now(),
		Exercise: &domain.ExerciseDetail{
			Name:      name,
			LibraryID: libraryID,
			Type:      exerciseType,
			Status:    domain.ExerciseInProgress,
			Sets:      []domain.WorkoutExerciseSet{},
		},
	}
	s.draft.Items = append(s.draft.Items, item)
	s.touch()
	return item.ID
}

// AddNote appends a free-text note item and returns its id.
func (s *sessionService) AddNote(text string) string {
	return s.addTextItem(domain.ItemKindNote, text)
}

// AddCustom appends a custom free-text item and returns its id.
func (s *sessionService) AddCustom(text string) string {
	return s.addTextItem(domain.ItemKindCustom, text)
}

func (s *sessionService) addTextItem(kind domain.ItemKind, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return ""
	}
	item := domain.WorkoutItem{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: s.now(),
		Text:      text,
	}
	s.draft.Items = append(s.draft.Items, item)
	s.touch()
	return item.ID
}

// UpdateItem renames an exercise or edits a note/custom item's text,
// whichever field fits the item's kind.
func (s *sessionService) UpdateItem(id string, patch domain.ItemPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItem(id)
	if item == nil {
		return false
	}
	if item.IsExercise() {
		if patch.Name != nil {
			item.Exercise.Name = *patch.Name
		}
	} else if patch.Text != nil {
		item.Text = *patch.Text
	}
	s.touch()
	return true
}

// CompleteItem transitions an exercise item to completed. Non-exercise items
// are left untouched and the call reports failure.
func (s *sessionService) CompleteItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItem(id)
	if item == nil || !item.IsExercise() {
		return false
	}
	item.Exercise.Status = domain.ExerciseCompleted
	s.touch()
	return true
}

// DeleteItem removes a top-level item together with all of its nested sets
// and notes.
func (s *sessionService) DeleteItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return false
	}
	for i := range s.draft.Items {
		if s.draft.Items[i].ID == id {
			s.draft.Items = append(s.draft.Items[:i], s.draft.Items[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

// GetExercise returns a copy of the exercise item with the given id, or nil
// if the id is unknown or refers to a non-exercise item.
func (s *sessionService) GetExercise(exerciseID string) *domain.WorkoutItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItem(exerciseID)
	if item == nil || !item.IsExercise() {
		return nil
	}
	clone := item.Clone()
	return &clone
}

// --- Sets ---

// AddExerciseSet appends a set to the named exercise and returns the set id.
func (s *sessionService) AddExerciseSet(exerciseID string, weight domain.OptionalFloat, reps domain.OptionalInt) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex := s.findExercise(exerciseID)
	if ex == nil {
		return ""
	}
	set := domain.WorkoutExerciseSet{
		ID:        uuid.NewString(),
		Weight:    weight,
		Reps:      reps,
		CreatedAt: s.now(),
	}
	ex.Sets = append(ex.Sets, set)
	s.touch()
	return set.ID
}

// UpdateExerciseSet patches one set in place. Nil patch fields are left
// unchanged; an invalid optional (or empty note) clears the field to unset.
func (s *sessionService) UpdateExerciseSet(exerciseID, setID string, patch domain.SetPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.findSet(exerciseID, setID)
	if set == nil {
		return false
	}
	if patch.Weight != nil {
		set.Weight = *patch.Weight
	}
	if patch.Reps != nil {
		set.Reps = *patch.Reps
	}
	if patch.Note != nil {
		set.Note = *patch.Note
	}
	s.touch()
	return true
}

// --- Exercise-level (general) notes ---

// AddExerciseGeneralNote appends a note to the exercise's general note list.
func (s *sessionService) AddExerciseGeneralNote(exerciseID, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex := s.findExercise(exerciseID)
	if ex == nil {
		return ""
	}
	note := domain.WorkoutNote{ID: uuid.NewString(), Text: text, CreatedAt: s.now()}
	ex.Notes = append(ex.Notes, note)
	s.touch()
	return note.ID
}

// UpdateExerciseGeneralNote edits a general note's text in place.
func (s *sessionService) UpdateExerciseGeneralNote(exerciseID, noteID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex := s.findExercise(exerciseID)
	if ex == nil {
		return false
	}
	if i := findNote(ex.Notes, noteID); i >= 0 {
		ex.Notes[i].Text = text
		s.touch()
		return true
	}
	return false
}

// RemoveExerciseGeneralNote deletes one general note. Sibling notes keep
// their order and ids.
func (s *sessionService) RemoveExerciseGeneralNote(exerciseID, noteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex := s.findExercise(exerciseID)
	if ex == nil {
		return false
	}
	if i := findNote(ex.Notes, noteID); i >= 0 {
		ex.Notes = append(ex.Notes[:i], ex.Notes[i+1:]...)
		s.touch()
		return true
	}
	return false
}

// --- Per-set notes ---

// AddExerciseSetNote appends a note to one specific set's note list.
func (s *sessionService) AddExerciseSetNote(exerciseID, setID, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.findSet(exerciseID, setID)
	if set == nil {
		return ""
	}
	note := domain.WorkoutNote{ID: uuid.NewString(), Text: text, CreatedAt: s.now()}
	set.Notes = append(set.Notes, note)
	s.touch()
	return note.ID
}

// UpdateExerciseSetNote edits a per-set note's text in place.
func (s *sessionService) UpdateExerciseSetNote(exerciseID, setID, noteID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.findSet(exerciseID, setID)
	if set == nil {
		return false
	}
	if i := findNote(set.Notes, noteID); i >= 0 {
		set.Notes[i].Text = text
		s.touch()
		return true
	}
	return false
}

// RemoveExerciseSetNote deletes one per-set note.
func (s *sessionService) RemoveExerciseSetNote(exerciseID, setID, noteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.findSet(exerciseID, setID)
	if set == nil {
		return false
	}
	if i := findNote(set.Notes, noteID); i >= 0 {
		set.Notes = append(set.Notes[:i], set.Notes[i+1:]...)
		s.touch()
		return true
	}
	return false
}

// --- Finalization and resets ---

// FinishAndSave finalizes the draft into an immutable WorkoutSaved, prepends
// it to history and clears the draft. Returns the saved id, or empty string
// when no draft is active. A blank draft name is replaced with a synthesized
// default derived from the start date.
func (s *sessionService) FinishAndSave() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return ""
	}

	name := strings.TrimSpace(s.draft.Name)
	if name == "" {
		name = "Workout on " + time.UnixMilli(s.draft.StartedAt).Format("Jan 2, 2006")
	}

	items := s.draft.Items
	if items == nil {
		items = []domain.WorkoutItem{}
	}
	saved := domain.WorkoutSaved{
		ID:        uuid.NewString(),
		Name:      name,
		StartedAt: s.draft.StartedAt,
		EndedAt:   s.now(),
		Items:     items,
	}

	s.history = append([]domain.WorkoutSaved{saved}, s.history...)
	s.draft = nil
	s.markDirty()
	return saved.ID
}

// ClearDraft discards the active draft without saving it.
func (s *sessionService) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.markDirty()
}

// ClearHistory wipes the saved-workout history.
func (s *sessionService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.markDirty()
}

// --- Lookup helpers (callers hold s.mu) ---

func (s *sessionService) findItem(id string) *domain.WorkoutItem {
	if s.draft == nil {
		return nil
	}
	for i := range s.draft.Items {
		if s.draft.Items[i].ID == id {
			return &s.draft.Items[i]
		}
	}
	return nil
}

func (s *sessionService) findExercise(id string) *domain.ExerciseDetail {
	item := s.findItem(id)
	if item == nil || !item.IsExercise() {
		return nil
	}
	return item.Exercise
}

func (s *sessionService) findSet(exerciseID, setID string) *domain.WorkoutExerciseSet {
	ex := s.findExercise(exerciseID)
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			return &ex.Sets[i]
		}
	}
	return nil
}

func findNote(notes []domain.WorkoutNote, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}
