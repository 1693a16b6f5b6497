package session

// ElapsedSeconds reports how long the active draft has been running,
// excluding paused intervals. It is a pure read, safe to call on every UI
// tick; no timestamps are modified.
func (s *sessionService) ElapsedSeconds() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return 0
	}
	if s.draft.PausedAt != nil {
		return (*s.draft.PausedAt - s.draft.StartedAt) / 1000
	}
	return (s.now() - s.draft.StartedAt) / 1000
}

// Pause freezes the timer by recording the pause instant. Already paused or
// no draft is a no-op.
func (s *sessionService) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil || s.draft.PausedAt != nil {
		return false
	}
	pausedAt := s.now()
	s.draft.PausedAt = &pausedAt
	s.touch()
	return true
}

// Resume shifts startedAt forward by the pause duration and clears pausedAt,
// so ElapsedSeconds continues exactly where it left off. The timer neither
// loses nor gains time across a pause/resume cycle.
func (s *sessionService) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil || s.draft.PausedAt == nil {
		return false
	}
	s.draft.StartedAt += s.now() - *s.draft.PausedAt
	s.draft.PausedAt = nil
	s.touch()
	return true
}
