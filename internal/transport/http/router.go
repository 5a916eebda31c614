package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/platform/logger"
)

type Options struct {
	AllowedOrigins []string
	CookieSecret   string
	MaxUploadBytes int64
}

// Handler serves the REST and websocket API for study workspaces.
type Handler struct {
	service   *app.StudyService
	cookies   *sessions.CookieStore
	upgrader  websocket.Upgrader
	maxUpload int64
	log       *logger.Logger
}

func NewHandler(service *app.StudyService, opts Options, log *logger.Logger) *Handler {
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}
	return &Handler{
		service:   service,
		cookies:   newCookieStore([]byte(opts.CookieSecret)),
		maxUpload: maxUpload,
		log:       log.With("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// NewRouter wires the API under /api/v1.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog())

	if len(allowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
		config.ExposeHeaders = []string{"Content-Disposition"}
		r.Use(cors.New(config))
	}

	apiV1 := r.Group("/api/v1")
	apiV1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	visitor := apiV1.Group("", h.identity())
	{
		visitor.POST("/generate", h.Generate)
		visitor.DELETE("/workspace", h.ClearWorkspace)
		visitor.GET("/quiz", h.Quiz)
		visitor.POST("/quiz/answers", h.SelectAnswer)
		visitor.POST("/quiz/submit", h.Submit)
		visitor.POST("/quiz/retake", h.Retake)
		visitor.GET("/export/text", h.ExportText)
		visitor.GET("/export/pdf", h.ExportPDF)
		visitor.GET("/history", h.History)
		visitor.GET("/stats", h.Stats)
		visitor.GET("/ws", h.ServeWS)
	}
	return r
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
