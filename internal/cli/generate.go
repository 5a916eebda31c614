package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/config"
	"study-quiz-service/internal/content"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/platform/logger"
)

type generateOptions struct {
	questions int
	mock      bool
	answers   string
	textOut   string
	pdfOut    string
}

// NewGenerateCmd generates study materials for a single file without
// starting the server.
func NewGenerateCmd(configPath *string) *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Summarize a text or PDF file and write the study materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runGenerate(ctx, *configPath, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&opts.questions, "questions", "n", 0, "number of quiz questions (3-10)")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "use built-in mock content")
	cmd.Flags().StringVar(&opts.answers, "answers", "", `answers to submit, e.g. "1=b,2=c"`)
	cmd.Flags().StringVar(&opts.textOut, "text-out", "", "write the text export to this path")
	cmd.Flags().StringVar(&opts.pdfOut, "pdf-out", "", "write the PDF export to this path")
	return cmd
}

func runGenerate(ctx context.Context, configPath, input string, opts generateOptions, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	answers, err := parseAnswers(opts.answers)
	if err != nil {
		return err
	}

	req, err := readMaterial(input)
	if err != nil {
		return err
	}
	req.Mock = opts.mock || cfg.LLM.Mock
	req.NumQuestions = opts.questions

	rt, err := buildRuntime(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	visitor := uuid.NewString()
	rt.service.TouchVisitor(ctx, domain.VisitorSession{ID: visitor, UserAgent: "study-quiz-cli"})

	view, err := rt.service.Generate(ctx, visitor, req)
	if err != nil {
		return err
	}
	for _, w := range view.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if len(answers) > 0 {
		for _, id := range lo.Keys(answers) {
			if _, err := rt.service.Select(ctx, visitor, id, answers[id]); err != nil {
				return fmt.Errorf("answer question %d: %w", id, err)
			}
		}
		if view, err = rt.service.Submit(ctx, visitor); err != nil {
			return err
		}
		fmt.Fprintf(out, "Score: %d/%d (%.1f%%) %s\n", view.Score.Correct, view.Score.Total, view.Score.Percentage, view.Score.Grade.Label())
	}

	text, err := rt.service.ExportText(ctx, visitor)
	if err != nil {
		return err
	}
	if opts.textOut == "" && opts.pdfOut == "" {
		fmt.Fprint(out, text)
		return nil
	}
	if opts.textOut != "" {
		if err := os.WriteFile(opts.textOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write text export: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", opts.textOut)
	}
	if opts.pdfOut != "" {
		doc, err := rt.service.ExportDocument(ctx, visitor)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdfOut, doc, 0o644); err != nil {
			return fmt.Errorf("write pdf export: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", opts.pdfOut)
	}
	return nil
}

func readMaterial(path string) (app.GenerateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return app.GenerateRequest{}, fmt.Errorf("read input: %w", err)
	}
	req := app.GenerateRequest{
		FileName:    filepath.Base(path),
		FileSize:    int64(len(data)),
		InputMethod: domain.InputText,
		Material:    string(data),
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := content.ExtractPDFText(data)
		if err != nil {
			return app.GenerateRequest{}, fmt.Errorf("extract pdf text: %w", err)
		}
		req.Material = text
		req.InputMethod = domain.InputPDF
	}
	return req, nil
}

// parseAnswers reads "1=b,2=c" into question id -> option key.
func parseAnswers(raw string) (map[int]string, error) {
	answers := map[int]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, key, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q, want id=key", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q", id)
		}
		answers[n] = strings.ToLower(strings.TrimSpace(key))
	}
	return answers, nil
}
