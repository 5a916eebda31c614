package app

import (
	"encoding/json"
	"time"

	"study-quiz-service/internal/quiz"
)

// Workspace is one visitor's current generation: the texts the provider
// returned and the quiz session built from them. A new generation replaces it.
type Workspace struct {
	Summary      string
	QuizText     string
	Session      *quiz.Session
	GenerationID int64
	FileName     string
	Model        string
	Warnings     []string
	UpdatedAt    time.Time
}

type workspaceJSON struct {
	Summary      string        `json:"summary"`
	QuizText     string        `json:"quizText"`
	Quiz         quiz.Snapshot `json:"quiz"`
	GenerationID int64         `json:"generationId,omitempty"`
	FileName     string        `json:"fileName,omitempty"`
	Model        string        `json:"model,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (w *Workspace) MarshalJSON() ([]byte, error) {
	rec := workspaceJSON{
		Summary:      w.Summary,
		QuizText:     w.QuizText,
		GenerationID: w.GenerationID,
		FileName:     w.FileName,
		Model:        w.Model,
		Warnings:     w.Warnings,
		UpdatedAt:    w.UpdatedAt,
	}
	if w.Session != nil {
		rec.Quiz = w.Session.Snapshot()
	}
	return json.Marshal(rec)
}

func (w *Workspace) UnmarshalJSON(data []byte) error {
	var rec workspaceJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*w = Workspace{
		Summary:      rec.Summary,
		QuizText:     rec.QuizText,
		Session:      quiz.Restore(rec.Quiz),
		GenerationID: rec.GenerationID,
		FileName:     rec.FileName,
		Model:        rec.Model,
		Warnings:     rec.Warnings,
		UpdatedAt:    rec.UpdatedAt,
	}
	return nil
}

// Clone returns a copy that shares no mutable state with w.
func (w *Workspace) Clone() *Workspace {
	c := *w
	if w.Session != nil {
		c.Session = quiz.Restore(w.Session.Snapshot())
	}
	c.Warnings = append([]string(nil), w.Warnings...)
	return &c
}
