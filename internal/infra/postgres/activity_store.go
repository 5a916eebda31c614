package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/quiz"
)

// ActivityStore persists visitor activity in Postgres. The schema is owned by
// the migrations package.
type ActivityStore struct {
	pool *pgxpool.Pool
}

func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

func (s *ActivityStore) TouchSession(ctx context.Context, v domain.VisitorSession) error {
	now := time.Now().UTC()
	created := v.CreatedAt
	if created.IsZero() {
		created = now
	}
	last := v.LastActivity
	if last.IsZero() {
		last = now
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, username, ip_address, user_agent, created_at, last_activity)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			username = COALESCE(EXCLUDED.username, sessions.username),
			ip_address = COALESCE(EXCLUDED.ip_address, sessions.ip_address),
			user_agent = COALESCE(EXCLUDED.user_agent, sessions.user_agent),
			last_activity = EXCLUDED.last_activity`,
		v.ID, v.Username, v.IPAddress, v.UserAgent, created, last,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *ActivityStore) RecordGeneration(ctx context.Context, meta domain.GenerationMeta) (int64, error) {
	if err := s.ensureSession(ctx, meta.SessionID); err != nil {
		return 0, err
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO generations (session_id, file_name, file_size, content_length, input_method, summary, quiz, model_used, mock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		meta.SessionID, meta.FileName, meta.FileSize, meta.ContentLength,
		string(meta.InputMethod), meta.Summary, meta.Quiz, meta.Model, meta.Mock,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert generation: %w", err)
	}
	return id, nil
}

func (s *ActivityStore) RecordQuizResult(ctx context.Context, sessionID string, generationID int64, score domain.ScoreResult, answers map[int]string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_results (session_id, generation_id, score, total_questions, percentage, answered_count, user_answers)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)`,
		sessionID, generationID, score.Correct, score.Total, score.Percentage, score.Answered, string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

func (s *ActivityStore) ListGenerations(ctx context.Context, sessionID string, limit int) ([]domain.Generation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, created_at, COALESCE(file_name, ''), COALESCE(file_size, 0),
			COALESCE(content_length, 0), COALESCE(input_method, ''), COALESCE(model_used, ''), mock
		FROM generations
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, sessionID, limit)
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
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.session_id, r.generation_id, r.completed_at, r.score, r.total_questions,
			r.percentage, r.answered_count, r.user_answers,
			COALESCE(g.file_name, ''), COALESCE(g.model_used, '')
		FROM quiz_results r
		LEFT JOIN generations g ON g.id = r.generation_id
		WHERE r.session_id = $1
		ORDER BY r.completed_at DESC, r.id DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizResult
	for rows.Next() {
		var r domain.QuizResult
		var answers []byte
		if err := rows.Scan(&r.ID, &r.SessionID, &r.GenerationID, &r.CompletedAt, &r.Score.Correct, &r.Score.Total,
			&r.Score.Percentage, &r.Score.Answered, &answers, &r.FileName, &r.Model); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		r.Answers = map[int]string{}
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		r.Score.Grade = quiz.GradeFor(r.Score.Percentage)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ActivityStore) Statistics(ctx context.Context) (domain.Statistics, error) {
	var st domain.Statistics
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM generations),
			(SELECT COUNT(*) FROM quiz_results),
			(SELECT COALESCE(AVG(percentage), 0) FROM quiz_results),
			(SELECT COUNT(*) FROM sessions WHERE last_activity >= now() - interval '24 hours')`,
	).Scan(&st.TotalSessions, &st.TotalGenerations, &st.TotalQuizResults, &st.AverageQuizScore, &st.ActiveSessions24h)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	return st, nil
}

func (s *ActivityStore) ensureSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id) VALUES ($1)
		ON CONFLICT (session_id) DO UPDATE SET last_activity = now()`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}
