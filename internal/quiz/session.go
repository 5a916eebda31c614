package quiz

import (
	"strings"
	"sync"

	"study-quiz-service/internal/domain"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateFresh      State = "fresh"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
)

// Session holds one visitor's attempt at a generated quiz.
// Questions never change after creation; answers and the submitted flag do.
type Session struct {
	mu        sync.RWMutex
	questions []domain.Question
	index     map[int]int
	answers   map[int]string
	submitted bool
}

// Snapshot is the serializable form of a Session.
type Snapshot struct {
	Questions []domain.Question `json:"questions"`
	Answers   map[int]string    `json:"answers"`
	Submitted bool              `json:"submitted"`
}

func NewSession(questions []domain.Question) *Session {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)

	index := make(map[int]int, len(qs))
	for i, q := range qs {
		index[q.ID] = i
	}
	return &Session{
		questions: qs,
		index:     index,
		answers:   make(map[int]string),
	}
}

// Restore rebuilds a Session from a snapshot. Answers for unknown questions are dropped.
func Restore(snap Snapshot) *Session {
	s := NewSession(snap.Questions)
	for id, key := range snap.Answers {
		if _, ok := s.index[id]; ok {
			s.answers[id] = key
		}
	}
	s.submitted = snap.Submitted && len(s.answers) > 0
	return s
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	questions := make([]domain.Question, len(s.questions))
	for i, q := range s.questions {
		opts := make(map[string]string, len(q.Options))
		for k, v := range q.Options {
			opts[k] = v
		}
		q.Options = opts
		questions[i] = q
	}
	answers := make(map[int]string, len(s.answers))
	for id, key := range s.answers {
		answers[id] = key
	}
	return Snapshot{Questions: questions, Answers: answers, Submitted: s.submitted}
}

func (s *Session) Questions() []domain.Question {
	return s.Snapshot().Questions
}

func (s *Session) Answers() map[int]string {
	return s.Snapshot().Answers
}

func (s *Session) Submitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitted
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.submitted:
		return StateSubmitted
	case len(s.answers) > 0:
		return StateInProgress
	default:
		return StateFresh
	}
}

// Select records key as the answer to questionID, replacing any earlier choice.
// The key only has to be a letter a-d; it may be absent from a malformed question's options.
func (s *Session) Select(questionID int, key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if len(key) != 1 || key[0] < 'a' || key[0] > 'd' {
		return domain.ErrInvalidOptionKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return domain.ErrInvalidState
	}
	if _, ok := s.index[questionID]; !ok {
		return domain.ErrUnknownQuestion
	}
	s.answers[questionID] = key
	return nil
}

// Submit locks the answers. It reports whether this call performed the transition;
// repeated calls on a submitted session are no-ops.
func (s *Session) Submit() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return false, nil
	}
	if len(s.answers) == 0 {
		return false, domain.ErrNoAnswers
	}
	s.submitted = true
	return true, nil
}

// Retake clears answers so the same questions can be attempted again.
func (s *Session) Retake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitted {
		return domain.ErrInvalidState
	}
	s.answers = make(map[int]string)
	s.submitted = false
	return nil
}

// Score can be called in any state.
func (s *Session) Score() domain.ScoreResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return score(s.questions, s.answers)
}
