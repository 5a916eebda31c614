package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/content"
	"study-quiz-service/internal/domain"
)

type generateRequest struct {
	Text         string `json:"text" form:"text"`
	NumQuestions int    `json:"numQuestions" form:"num_questions"`
	Mock         bool   `json:"mock" form:"mock"`
	Username     string `json:"username" form:"username"`
}

type selectRequest struct {
	QuestionID int    `json:"questionId"`
	Key        string `json:"key" binding:"required"`
}

// Generate accepts either JSON with pasted text or a multipart form with a
// "file" upload (PDF or plain text).
func (h *Handler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var req generateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	genReq := app.GenerateRequest{
		Material:     req.Text,
		InputMethod:  domain.InputText,
		NumQuestions: req.NumQuestions,
		Mock:         req.Mock,
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := h.readUpload(c, &genReq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	id := visitorID(c)
	if req.Username != "" {
		h.service.TouchVisitor(c.Request.Context(), domain.VisitorSession{ID: id, Username: req.Username})
	}

	view, err := h.service.Generate(c.Request.Context(), id, genReq)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) readUpload(c *gin.Context, req *app.GenerateRequest) error {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	req.FileName = fh.Filename
	req.FileSize = fh.Size
	if strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") || fh.Header.Get("Content-Type") == "application/pdf" {
		text, err := content.ExtractPDFText(data)
		if errors.Is(err, domain.ErrEmptyContent) {
			return errors.New("no text could be extracted from the PDF")
		}
		if err != nil {
			return fmt.Errorf("could not read PDF: %w", err)
		}
		req.Material = text
		req.InputMethod = domain.InputPDF
		return nil
	}
	req.Material = string(data)
	return nil
}

func (h *Handler) Quiz(c *gin.Context) {
	mode := domain.ModeInteractive
	if c.Query("mode") == string(domain.ModeReview) {
		mode = domain.ModeReview
	}
	view, err := h.service.View(c.Request.Context(), visitorID(c), mode)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) SelectAnswer(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	view, err := h.service.Select(c.Request.Context(), visitorID(c), req.QuestionID, req.Key)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Submit(c *gin.Context) {
	view, err := h.service.Submit(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Retake(c *gin.Context) {
	view, err := h.service.Retake(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearWorkspace drops the visitor's current summary and quiz.
func (h *Handler) ClearWorkspace(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), visitorID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ExportText(c *gin.Context) {
	text, err := h.service.ExportText(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *Handler) ExportPDF(c *gin.Context) {
	doc, err := h.service.ExportDocument(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), visitorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="study_materials_%s.%s"`, time.Now().Format("20060102_150405"), ext)
}
