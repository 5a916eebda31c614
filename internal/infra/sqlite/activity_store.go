package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/quiz"
)

// ActivityStore persists visitor sessions, generations and quiz results in a
// local SQLite file.
type ActivityStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*ActivityStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &ActivityStore{db: db, now: time.Now}, nil
}

func (s *ActivityStore) Close() error {
	return s.db.Close()
}

// CreateTables creates the schema if it does not exist.
func (s *ActivityStore) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			username TEXT,
			ip_address TEXT,
			user_agent TEXT,
			created_at DATETIME NOT NULL,
			last_activity DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS generations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(session_id),
			created_at DATETIME NOT NULL,
			file_name TEXT,
			file_size INTEGER,
			content_length INTEGER,
			input_method TEXT,
			summary TEXT,
			quiz TEXT,
			model_used TEXT,
			mock INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(session_id),
			generation_id INTEGER NOT NULL REFERENCES generations(id),
			completed_at DATETIME NOT NULL,
			score INTEGER,
			total_questions INTEGER,
			percentage REAL,
			answered_count INTEGER,
			user_answers TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generations_session ON generations(session_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_results_session ON quiz_results(session_id, completed_at)`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// TouchSession inserts the visitor or refreshes its activity. Empty
// username, ip or agent values keep what is already stored.
func (s *ActivityStore) TouchSession(ctx context.Context, v domain.VisitorSession) error {
	now := s.now().UTC()
	created := v.CreatedAt
	if created.IsZero() {
		created = now
	}
	last := v.LastActivity
	if last.IsZero() {
		last = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, username, ip_address, user_agent, created_at, last_activity)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			username = COALESCE(excluded.username, sessions.username),
			ip_address = COALESCE(excluded.ip_address, sessions.ip_address),
			user_agent = COALESCE(excluded.user_agent, sessions.user_agent),
			last_activity = excluded.last_activity`,
		v.ID, v.Username, v.IPAddress, v.UserAgent, created.UTC(), last.UTC(),
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *ActivityStore) RecordGeneration(ctx context.Context, meta domain.GenerationMeta) (int64, error) {
	now := s.now().UTC()
	if err := s.ensureSession(ctx, meta.SessionID, now); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (session_id, created_at, file_name, file_size, content_length, input_method, summary, quiz, model_used, mock)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.SessionID, now, meta.FileName, meta.FileSize, meta.ContentLength,
		string(meta.InputMethod), meta.Summary, meta.Quiz, meta.Model, meta.Mock,
	)
	if err != nil {
		return 0, fmt.Errorf("insert generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("generation id: %w", err)
	}
	return id, nil
}

func (s *ActivityStore) RecordQuizResult(ctx context.Context, sessionID string, generationID int64, score domain.ScoreResult, answers map[int]string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	now := s.now().UTC()
	if err := s.ensureSession(ctx, sessionID, now); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_results (session_id, generation_id, completed_at, score, total_questions, percentage, answered_count, user_answers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, generationID, now, score.Correct, score.Total, score.Percentage, score.Answered, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

func (s *ActivityStore) ListGenerations(ctx context.Context, sessionID string, limit int) ([]domain.Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, created_at, COALESCE(file_name, ''), COALESCE(file_size, 0),
			COALESCE(content_length, 0), COALESCE(input_method, ''), COALESCE(model_used, ''), mock
		FROM generations
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []domain.Generation
	for rows.Next() {
		var g domain.Generation
		var method string
		if err := rows.Scan(&g.ID, &g.SessionID, &g.CreatedAt, &g.FileName, &g.FileSize, &g.ContentLength, &method, &g.Model, &g.Mock); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		g.InputMethod = domain.InputMethod(method)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *ActivityStore) ListQuizResults(ctx context.Context, sessionID string, limit int) ([]domain.QuizResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.session_id, r.generation_id, r.completed_at, r.score, r.total_questions,
			r.percentage, r.answered_count, COALESCE(r.user_answers, ''),
			COALESCE(g.file_name, ''), COALESCE(g.model_used, '')
		FROM quiz_results r
		LEFT JOIN generations g ON g.id = r.generation_id
		WHERE r.session_id = ?
		ORDER BY r.completed_at DESC, r.id DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizResult
	for rows.Next() {
		var r domain.QuizResult
		var answers string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.GenerationID, &r.CompletedAt, &r.Score.Correct, &r.Score.Total,
			&r.Score.Percentage, &r.Score.Answered, &answers, &r.FileName, &r.Model); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		r.Answers = decodeAnswers(answers)
		r.Score.Grade = quiz.GradeFor(r.Score.Percentage)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ActivityStore) Statistics(ctx context.Context) (domain.Statistics, error) {
	var st domain.Statistics
	since := s.now().UTC().Add(-24 * time.Hour)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM generations),
			(SELECT COUNT(*) FROM quiz_results),
			(SELECT COALESCE(AVG(percentage), 0) FROM quiz_results),
			(SELECT COUNT(*) FROM sessions WHERE last_activity >= ?)`, since,
	).Scan(&st.TotalSessions, &st.TotalGenerations, &st.TotalQuizResults, &st.AverageQuizScore, &st.ActiveSessions24h)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	return st, nil
}

// ensureSession makes sure foreign keys to sessions resolve and refreshes
// the visitor's last activity.
func (s *ActivityStore) ensureSession(ctx context.Context, sessionID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, created_at, last_activity) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET last_activity = excluded.last_activity`,
		sessionID, now, now,
	)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

func decodeAnswers(raw string) map[int]string {
	answers := map[int]string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &answers)
	}
	return answers
}
