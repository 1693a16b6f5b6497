package session

import "github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"

// undoKind names the three categories of revertible nested facts.
type undoKind int

const (
	undoNone undoKind = iota
	undoSet
	undoGeneralNote
	undoSetNote
)

// undoTarget locates the single most-recently-created nested fact in the
// draft's item tree.
type undoTarget struct {
	kind      undoKind
	itemIdx   int
	setIdx    int
	noteIdx   int
	createdAt int64
}

// UndoLastAction reverts the newest set, exercise-level note or per-set note
// across all exercises in the draft, whichever was created last. Exactly one
// entity is removed. Top-level item creation/deletion and draft renames are
// deliberately not undoable; undo is scoped to logging-granularity facts.
// Returns false with no mutation when there is nothing to undo.
func (s *sessionService) UndoLastAction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return false
	}

	target := latestUndoTarget(s.draft)
	if target.kind == undoNone {
		return false
	}

	ex := s.draft.Items[target.itemIdx].Exercise
	switch target.kind {
	case undoSetNote:
		set := &ex.Sets[target.setIdx]
		set.Notes = append(set.Notes[:target.noteIdx], set.Notes[target.noteIdx+1:]...)
	case undoGeneralNote:
		ex.Notes = append(ex.Notes[:target.noteIdx], ex.Notes[target.noteIdx+1:]...)
	case undoSet:
		ex.Sets = append(ex.Sets[:target.setIdx], ex.Sets[target.setIdx+1:]...)
	}

	s.touch()
	return true
}

// latestUndoTarget scans the whole item tree and compares the newest set,
// the newest general note and the newest per-set note. Tie-breaking is
// deterministic: within a category the later-inserted entity wins, and on
// equal timestamps across categories a set note beats a general note beats a
// set.
func latestUndoTarget(d *domain.WorkoutDraft) undoTarget {
	newestSet := undoTarget{kind: undoNone, createdAt: -1}
	newestGeneralNote := undoTarget{kind: undoNone, createdAt: -1}
	newestSetNote := undoTarget{kind: undoNone, createdAt: -1}

	for i := range d.Items {
		if !d.Items[i].IsExercise() {
			continue
		}
		ex := d.Items[i].Exercise
		for j := range ex.Sets {
			if ex.Sets[j].CreatedAt >= newestSet.createdAt {
				newestSet = undoTarget{kind: undoSet, itemIdx: i, setIdx: j, createdAt: ex.Sets[j].CreatedAt}
			}
			for k := range ex.Sets[j].Notes {
				if ex.Sets[j].Notes[k].CreatedAt >= newestSetNote.createdAt {
					newestSetNote = undoTarget{kind: undoSetNote, itemIdx: i, setIdx: j, noteIdx: k, createdAt: ex.Sets[j].Notes[k].CreatedAt}
				}
			}
		}
		for j := range ex.Notes {
			if ex.Notes[j].CreatedAt >= newestGeneralNote.createdAt {
				newestGeneralNote = undoTarget{kind: undoGeneralNote, itemIdx: i, noteIdx: j, createdAt: ex.Notes[j].CreatedAt}
			}
		}
	}

	switch {
	case newestSetNote.kind != undoNone &&
		newestSetNote.createdAt >= newestGeneralNote.createdAt &&
		newestSetNote.createdAt >= newestSet.createdAt:
		return newestSetNote
	case newestGeneralNote.kind != undoNone &&
		newestGeneralNote.createdAt >= newestSet.createdAt:
		return newestGeneralNote
	default:
		return newestSet
	}
}
