package domain

// ItemKind discriminates the three kinds of loggable entries in a draft.
type ItemKind string

const (
	ItemKindExercise ItemKind = "exercise"
	ItemKindNote     ItemKind = "note"
	ItemKindCustom   ItemKind = "custom"
)

// ExerciseStatus tracks the lifecycle of an exercise item within a draft.
type ExerciseStatus string

const (
	ExerciseInProgress ExerciseStatus = "inProgress"
	ExerciseCompleted  ExerciseStatus = "completed"
)

// WorkoutNote is a general (exercise-level) or per-set annotation.
// Text is editable in place; notes are independently deletable.
type WorkoutNote struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // ms epoch
}

// WorkoutExerciseSet is one logged set under an exercise item. Weight and reps
// start out unset (distinct from a logged zero). Note is a free-form quick
// annotation on the set itself; Notes is the ordered per-set note list.
type WorkoutExerciseSet struct {
	ID        string        `json:"id"`
	Weight    OptionalFloat `json:"weight"`
	Reps      OptionalInt   `json:"reps"`
	Note      string        `json:"note,omitempty"`
	CreatedAt int64         `json:"createdAt"`
	Notes     []WorkoutNote `json:"notes,omitempty"`
}

// ExerciseDetail is the payload of an exercise item: its display name, an
// opaque reference into the exercise catalog, the lifecycle status and the
// nested set/note collections. Set order is insertion order; there is no
// stored set number.
type ExerciseDetail struct {
	Name      string               `json:"name"`
	LibraryID string               `json:"libraryId,omitempty"`
	Type      string               `json:"type,omitempty"`
	Status    ExerciseStatus       `json:"status"`
	Sets      []WorkoutExerciseSet `json:"sets"`
	Notes     []WorkoutNote        `json:"notes,omitempty"`
}

// SetOrdinal returns the display number for the set at index i. While the
// exercise is in progress sets count up from 1; once completed the display
// order is reversed. The ordinal is always derived, never stored.
func (e *ExerciseDetail) SetOrdinal(i int) int {
	if e.Status == ExerciseCompleted {
		return len(e.Sets) - i
	}
	return i + 1
}

// WorkoutItem is a tagged union over {exercise, note, custom}. Exactly one
// payload is populated: Exercise for ItemKindExercise, Text otherwise.
type WorkoutItem struct {
	ID        string          `json:"id"`
	Kind      ItemKind        `json:"kind"`
	CreatedAt int64           `json:"createdAt"`
	Exercise  *ExerciseDetail `json:"exercise,omitempty"`
	Text      string          `json:"text,omitempty"`
}

func (it *WorkoutItem) IsExercise() bool {
	return it.Kind == ItemKindExercise && it.Exercise != nil
}

// ItemPatch carries the editable fields of UpdateItem. Nil fields are left
// unchanged; Name applies to exercise items only, Text to note/custom items.
type ItemPatch struct {
	Name *string
	Text *string
}

// SetPatch carries the editable fields of UpdateExerciseSet. Nil fields are
// left unchanged. An invalid optional clears weight/reps back to unset, and an
// empty Note string clears the quick note, so "empty clears" holds uniformly.
type SetPatch struct {
	Weight *OptionalFloat
	Reps   *OptionalInt
	Note   *string
}

// Clone returns a deep copy of the item, including nested sets and notes.
func (it WorkoutItem) Clone() WorkoutItem {
	out := it
	if it.Exercise != nil {
		ex := *it.Exercise
		ex.Sets = make([]WorkoutExerciseSet, len(it.Exercise.Sets))
		for i, s := range it.Exercise.Sets {
			cs := s
			cs.Notes = append([]WorkoutNote(nil), s.Notes...)
			ex.Sets[i] = cs
		}
		ex.Notes = append([]WorkoutNote(nil), it.Exercise.Notes...)
		out.Exercise = &ex
	}
	return out
}

// CloneItems deep-copies an item slice.
func CloneItems(items []WorkoutItem) []WorkoutItem {
	if items == nil {
		return nil
	}
	out := make([]WorkoutItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
