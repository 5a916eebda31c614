package domain

import "time"

// Question is one parsed quiz block. ID is the 1-based position of the block in the source text.
type Question struct {
	ID         int               `json:"id"`
	Prompt     string            `json:"prompt"`
	Options    map[string]string `json:"options"`
	AnswerKey  string            `json:"answerKey"`
	AnswerText string            `json:"answerText"`
}

// Scoreable reports whether the question has an answer key naming one of its options.
func (q Question) Scoreable() bool {
	if q.AnswerKey == "" {
		return false
	}
	_, ok := q.Options[q.AnswerKey]
	return ok
}

// Grade buckets a percentage score.
type Grade string

const (
	GradeExcellent    Grade = "excellent"
	GradeGood         Grade = "good"
	GradeKeepLearning Grade = "keep_learning"
)

// Label is the human readable form used by exports.
func (g Grade) Label() string {
	switch g {
	case GradeExcellent:
		return "Excellent"
	case GradeGood:
		return "Good"
	default:
		return "Keep Learning"
	}
}

// ScoreResult is derived from a session on demand and never stored on it.
type ScoreResult struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Answered   int     `json:"answered"`
	Percentage float64 `json:"percentage"`
	Grade      Grade   `json:"grade"`
}

// Mode selects how a quiz is rendered.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeReview      Mode = "review"
)

// QuestionStatus is only meaningful once a quiz has been submitted.
type QuestionStatus string

const (
	StatusCorrect    QuestionStatus = "correct"
	StatusIncorrect  QuestionStatus = "incorrect"
	StatusUnanswered QuestionStatus = "unanswered"
)

// OptionView is one selectable alternative in display order.
type OptionView struct {
	Key      string `json:"key"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// QuestionView is the per-question view-model handed to presentation layers.
type QuestionView struct {
	ID           int            `json:"id"`
	Prompt       string         `json:"prompt"`
	Options      []OptionView   `json:"options"`
	Selected     string         `json:"selected,omitempty"`
	Submitted    bool           `json:"submitted"`
	Locked       bool           `json:"locked"`
	RevealAnswer bool           `json:"revealAnswer"`
	AnswerText   string         `json:"answerText,omitempty"`
	IsCorrect    bool           `json:"isCorrect"`
	Status       QuestionStatus `json:"status,omitempty"`
}

// BlockKind distinguishes summary headings from bullet lines.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockBullet  BlockKind = "bullet"
)

// Block is one display line of a formatted summary. Level is set for headings only.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text"`
}

// VisitorSession identifies a browser or CLI user across generations.
type VisitorSession struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// InputMethod records how study material was supplied.
type InputMethod string

const (
	InputText InputMethod = "text"
	InputPDF  InputMethod = "pdf"
)

// GenerationMeta describes one summary/quiz generation event.
type GenerationMeta struct {
	SessionID     string      `json:"sessionId"`
	FileName      string      `json:"fileName,omitempty"`
	FileSize      int64       `json:"fileSize,omitempty"`
	ContentLength int         `json:"contentLength"`
	InputMethod   InputMethod `json:"inputMethod"`
	Summary       string      `json:"summary"`
	Quiz          string      `json:"quiz"`
	Model         string      `json:"model"`
	Mock          bool        `json:"mock"`
}

// Generation is a stored generation event.
type Generation struct {
	ID            int64       `json:"id"`
	SessionID     string      `json:"sessionId"`
	CreatedAt     time.Time   `json:"createdAt"`
	FileName      string      `json:"fileName,omitempty"`
	FileSize      int64       `json:"fileSize,omitempty"`
	ContentLength int         `json:"contentLength"`
	InputMethod   InputMethod `json:"inputMethod"`
	Model         string      `json:"model"`
	Mock          bool        `json:"mock"`
}

// QuizResult is a stored submission.
type QuizResult struct {
	ID           int64          `json:"id"`
	SessionID    string         `json:"sessionId"`
	GenerationID int64          `json:"generationId"`
	CompletedAt  time.Time      `json:"completedAt"`
	Score        ScoreResult    `json:"score"`
	Answers      map[int]string `json:"answers"`
	FileName     string         `json:"fileName,omitempty"`
	Model        string         `json:"model,omitempty"`
}

// Statistics aggregates activity across all visitors.
type Statistics struct {
	TotalSessions     int     `json:"totalSessions"`
	TotalGenerations  int     `json:"totalGenerations"`
	TotalQuizResults  int     `json:"totalQuizResults"`
	AverageQuizScore  float64 `json:"averageQuizScore"`
	ActiveSessions24h int     `json:"activeSessions24h"`
}
