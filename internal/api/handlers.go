package api

import (
	"context"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/pipeline"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/utils"
)

// maxUploadBytes caps the multipart form size before validation runs.
const maxUploadBytes = 32 << 20 // 32MB

// VoicePipeline is the pipeline surface the handlers depend on.
type VoicePipeline interface {
	Run(ctx context.Context, req model.PipelineRequest) (*model.Response, *pipeline.Error)
	RunText(ctx context.Context, text, language string) (*model.Response, *pipeline.Error)
}

// Handler bundles the boundary dependencies.
type Handler struct {
	cfg  *config.Settings
	pipe VoicePipeline
}

// NewHandler creates the API handler set.
func NewHandler(cfg *config.Settings, pipe VoicePipeline) *Handler {
	return &Handler{cfg: cfg, pipe: pipe}
}

// RegisterRoutes wires all endpoints onto the engine.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	// Health check
	r.GET("/health", h.healthCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.POST("/voice/ask", h.askVoice)
		v1.POST("/voice/say", h.askText)
	}
}

// healthCheck returns server health status
func (h *Handler) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "voice-assistant",
	})
}

// askVoice handles the full voice pipeline: audio upload in, transcript,
// reply text, and synthesized speech out.
func (h *Handler) askVoice(c *gin.Context) {
	if c.Request.MultipartForm == nil {
		if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.Error(c, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
			return
		}
	}

	// Accept common field names used by the mobile and web clients.
	file, err := c.FormFile("audio_file")
	if err != nil {
		if file, err = c.FormFile("audio"); err != nil {
			if file, err = c.FormFile("file"); err != nil {
				utils.Error(c, http.StatusBadRequest, "audio file is required (field: audio_file, audio, or file)")
				return
			}
		}
	}

	src, err := file.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(file.Filename))
	}

	var duration float64
	if raw := c.PostForm("duration_seconds"); raw != "" {
		if duration, err = strconv.ParseFloat(raw, 64); err != nil {
			utils.Error(c, http.StatusBadRequest, "duration_seconds must be a number")
			return
		}
	}

	clip := model.AudioClip{
		Data:            data,
		MIMEType:        mimeType,
		DurationSeconds: duration,
	}
	req := model.NewPipelineRequest(clip, c.PostForm("language"))

	log.Printf("[API] voice ask %s: file=%s, mime=%s, bytes=%d", req.ID, file.Filename, mimeType, len(data))

	resp, perr := h.pipe.Run(c.Request.Context(), req)
	if perr != nil {
		utils.PipelineError(c, statusForError(c, perr), perr)
		return
	}

	utils.Success(c, resp)
}

// sayRequest is the JSON body for the text-only ask path.
type sayRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// askText handles typed questions: reasoning and synthesis without
// transcription.
func (h *Handler) askText(c *gin.Context) {
	var req sayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "text is required")
		return
	}

	language := req.Language
	if language == "" {
		language = h.cfg.DefaultLanguage
	}

	resp, perr := h.pipe.RunText(c.Request.Context(), req.Text, language)
	if perr != nil {
		utils.PipelineError(c, statusForError(c, perr), perr)
		return
	}

	utils.Success(c, resp)
}

// statusForError maps a pipeline failure to an HTTP status code.
func statusForError(c *gin.Context, perr *pipeline.Error) int {
	switch perr.Kind {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindProviderUnavailable:
		if c.Request.Context().Err() == context.DeadlineExceeded {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
