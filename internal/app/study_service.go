package app

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"study-quiz-service/internal/config"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/export"
	"study-quiz-service/internal/platform/logger"
	"study-quiz-service/internal/quiz"
	"study-quiz-service/internal/summary"
)

const historyLimit = 50

// GenerateRequest carries study material and how it was supplied.
type GenerateRequest struct {
	Material     string
	FileName     string
	FileSize     int64
	InputMethod  domain.InputMethod
	NumQuestions int
	Mock         bool
}

// View is what a client needs to draw the workspace.
type View struct {
	Summary       string                `json:"summary"`
	SummaryBlocks []domain.Block        `json:"summaryBlocks"`
	Mode          domain.Mode           `json:"mode"`
	State         quiz.State            `json:"state"`
	Questions     []domain.QuestionView `json:"questions"`
	Score         *domain.ScoreResult   `json:"score,omitempty"`
	GenerationID  int64                 `json:"generationId,omitempty"`
	Model         string                `json:"model,omitempty"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// History lists a visitor's past generations and quiz results, newest first.
type History struct {
	Generations []domain.Generation `json:"generations"`
	Results     []domain.QuizResult `json:"results"`
}

// StudyService contains the study workspace use cases.
type StudyService struct {
	provider   ContentProvider
	mock       ContentProvider
	store      ActivityStore
	workspaces WorkspaceRepository
	log        *logger.Logger
	now        func() time.Time

	defaultQuestions int

	locks [64]sync.Mutex
}

func NewStudyService(provider, mock ContentProvider, store ActivityStore, workspaces WorkspaceRepository, log *logger.Logger) *StudyService {
	return &StudyService{
		provider:   provider,
		mock:       mock,
		store:      store,
		workspaces: workspaces,
		log:        log.With("component", "study_service"),
		now:        time.Now,

		defaultQuestions: config.DefaultNumQuestions,
	}
}

// WithDefaultQuestions sets the quiz length used when a request does not ask
// for one.
func (s *StudyService) WithDefaultQuestions(n int) *StudyService {
	s.defaultQuestions = config.ClampQuestions(n)
	return s
}

// NewStudyServiceWithClock is test-only for deterministic timestamps.
func NewStudyServiceWithClock(provider, mock ContentProvider, store ActivityStore, workspaces WorkspaceRepository, log *logger.Logger, now func() time.Time) *StudyService {
	s := NewStudyService(provider, mock, store, workspaces, log)
	s.now = now
	return s
}

// lock serializes load-modify-save cycles for one visitor.
func (s *StudyService) lock(visitorID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(visitorID))
	mu := &s.locks[h.Sum32()%uint32(len(s.locks))]
	mu.Lock()
	return mu.Unlock
}

// TouchVisitor records visitor activity. Failures are logged and ignored.
func (s *StudyService) TouchVisitor(ctx context.Context, v domain.VisitorSession) {
	if v.LastActivity.IsZero() {
		v.LastActivity = s.now()
	}
	if err := s.store.TouchSession(ctx, v); err != nil {
		s.log.Warn("touch session failed", "session_id", v.ID, "error", err)
	}
}

// Generate asks the provider for a summary and a quiz and starts a fresh
// quiz session, discarding the visitor's previous one. Provider failures
// leave the corresponding text empty and are reported as warnings.
func (s *StudyService) Generate(ctx context.Context, visitorID string, req GenerateRequest) (View, error) {
	material := strings.TrimSpace(req.Material)
	if material == "" {
		return View{}, domain.ErrEmptyContent
	}

	mock := req.Mock || s.provider == nil
	provider := s.provider
	if mock {
		provider = s.mock
	}
	count := req.NumQuestions
	if count == 0 {
		count = s.defaultQuestions
	}
	count = config.ClampQuestions(count)
	log := s.log.With("session_id", visitorID, "model", provider.Model())

	var warnings []string
	summaryText, err := provider.GenerateSummary(ctx, material)
	if err != nil {
		log.Warn("summary generation failed", "error", err)
		warnings = append(warnings, "Summary could not be generated.")
		summaryText = ""
	}
	quizText, err := provider.GenerateQuiz(ctx, material, count)
	if err != nil {
		log.Warn("quiz generation failed", "error", err)
		warnings = append(warnings, "Quiz could not be generated.")
		quizText = ""
	}

	questions := quiz.Parse(quizText)
	if quizText != "" && len(questions) == 0 {
		warnings = append(warnings, "Quiz text did not contain any recognizable questions.")
	}

	unlock := s.lock(visitorID)
	defer unlock()

	ws := &Workspace{
		Summary:   summaryText,
		QuizText:  quizText,
		Session:   quiz.NewSession(questions),
		FileName:  req.FileName,
		Model:     provider.Model(),
		Warnings:  warnings,
		UpdatedAt: s.now(),
	}

	inputMethod := req.InputMethod
	if inputMethod == "" {
		inputMethod = domain.InputText
	}
	genID, err := s.store.RecordGeneration(ctx, domain.GenerationMeta{
		SessionID:     visitorID,
		FileName:      req.FileName,
		FileSize:      req.FileSize,
		ContentLength: len(material),
		InputMethod:   inputMethod,
		Summary:       summaryText,
		Quiz:          quizText,
		Model:         provider.Model(),
		Mock:          mock,
	})
	if err != nil {
		log.Warn("record generation failed", "error", err)
	}
	ws.GenerationID = genID

	if err := s.workspaces.Save(ctx, visitorID, ws); err != nil {
		return View{}, fmt.Errorf("save workspace: %w", err)
	}
	log.Info("generated study workspace", "questions", len(questions), "generation_id", genID)
	return s.view(ws, domain.ModeInteractive), nil
}

// Select records an answer choice for one question.
func (s *StudyService) Select(ctx context.Context, visitorID string, questionID int, key string) (View, error) {
	return s.mutate(ctx, visitorID, func(ws *Workspace) error {
		return ws.Session.Select(questionID, key)
	})
}

// Submit locks the answers and records the result the first time it happens.
func (s *StudyService) Submit(ctx context.Context, visitorID string) (View, error) {
	var transitioned bool
	view, err := s.mutate(ctx, visitorID, func(ws *Workspace) error {
		var err error
		transitioned, err = ws.Session.Submit()
		return err
	})
	if err != nil || !transitioned {
		return view, err
	}

	if view.GenerationID == 0 {
		s.log.Debug("quiz result not recorded without a generation", "session_id", visitorID)
		return view, nil
	}
	answers := make(map[int]string, len(view.Questions))
	for _, q := range view.Questions {
		if q.Selected != "" {
			answers[q.ID] = q.Selected
		}
	}
	if err := s.store.RecordQuizResult(ctx, visitorID, view.GenerationID, *view.Score, answers); err != nil {
		s.log.Warn("record quiz result failed", "session_id", visitorID, "generation_id", view.GenerationID, "error", err)
	}
	return view, nil
}

// Retake clears the answers of a submitted quiz.
func (s *StudyService) Retake(ctx context.Context, visitorID string) (View, error) {
	return s.mutate(ctx, visitorID, func(ws *Workspace) error {
		return ws.Session.Retake()
	})
}

// Clear forgets the visitor's current workspace. Stored activity history is
// kept. Clearing a visitor without a workspace is not an error.
func (s *StudyService) Clear(ctx context.Context, visitorID string) error {
	unlock := s.lock(visitorID)
	defer unlock()

	if err := s.workspaces.Delete(ctx, visitorID); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// View renders the workspace without changing it.
func (s *StudyService) View(ctx context.Context, visitorID string, mode domain.Mode) (View, error) {
	ws, err := s.load(ctx, visitorID)
	if err != nil {
		return View{}, err
	}
	return s.view(ws, mode), nil
}

func (s *StudyService) ExportText(ctx context.Context, visitorID string) (string, error) {
	report, err := s.report(ctx, visitorID)
	if err != nil {
		return "", err
	}
	return export.Text(report), nil
}

func (s *StudyService) ExportDocument(ctx context.Context, visitorID string) ([]byte, error) {
	report, err := s.report(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return export.Document(report)
}

func (s *StudyService) History(ctx context.Context, visitorID string) (History, error) {
	gens, err := s.store.ListGenerations(ctx, visitorID, historyLimit)
	if err != nil {
		return History{}, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	results, err := s.store.ListQuizResults(ctx, visitorID, historyLimit)
	if err != nil {
		return History{}, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return History{Generations: gens, Results: results}, nil
}

func (s *StudyService) Stats(ctx context.Context) (domain.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return stats, nil
}

func (s *StudyService) mutate(ctx context.Context, visitorID string, fn func(*Workspace) error) (View, error) {
	unlock := s.lock(visitorID)
	defer unlock()

	ws, err := s.load(ctx, visitorID)
	if err != nil {
		return View{}, err
	}
	if err := fn(ws); err != nil {
		return View{}, err
	}
	ws.UpdatedAt = s.now()
	if err := s.workspaces.Save(ctx, visitorID, ws); err != nil {
		return View{}, fmt.Errorf("save workspace: %w", err)
	}
	return s.view(ws, domain.ModeInteractive), nil
}

func (s *StudyService) load(ctx context.Context, visitorID string) (*Workspace, error) {
	ws, err := s.workspaces.Load(ctx, visitorID)
	if errors.Is(err, domain.ErrWorkspaceNotFound) {
		return nil, domain.ErrNoQuiz
	}
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if ws.Session == nil {
		ws.Session = quiz.NewSession(nil)
	}
	return ws, nil
}

func (s *StudyService) report(ctx context.Context, visitorID string) (export.Report, error) {
	ws, err := s.load(ctx, visitorID)
	if err != nil {
		return export.Report{}, err
	}
	return export.NewReport(ws.Summary, ws.Session, s.now()), nil
}

func (s *StudyService) view(ws *Workspace, mode domain.Mode) View {
	snap := ws.Session.Snapshot()
	v := View{
		Summary:       ws.Summary,
		SummaryBlocks: summary.Format(ws.Summary),
		Mode:          mode,
		State:         ws.Session.State(),
		Questions:     quiz.RenderSnapshot(snap, mode),
		GenerationID:  ws.GenerationID,
		Model:         ws.Model,
		Warnings:      ws.Warnings,
	}
	if snap.Submitted {
		score := snap.Score()
		v.Score = &score
	}
	return v
}
