package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jbctechsolutions/doc2code/internal/application/generation"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
)

type handlers struct {
	deps Dependencies
}

type generateRequest struct {
	Documentation string `json:"documentation" binding:"required"`
	Language      string `json:"language" binding:"required"`
	AIProvider    string `json:"aiProvider" binding:"required"`
	Model         string `json:"model"`
	Minify        bool   `json:"minify"`
	IsJSON        bool   `json:"isJson"`
	UseChunking   bool   `json:"useChunking"`
	SessionID     string `json:"sessionId"`
}

type generateResponse struct {
	SDK       string `json:"sdk"`
	SessionID string `json:"sessionId,omitempty"`
}

func (h *handlers) generate(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.deps.Logger

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := bindErrorMessage(err)
		log.WarnContext(ctx, "rejected generate request", "reason", msg, "error", err.Error())
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	if !model.IsValidProvider(req.AIProvider) {
		log.WarnContext(ctx, "invalid AI provider", "provider", req.AIProvider)
		respondError(c, http.StatusBadRequest, msgInvalidProvider)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" && req.UseChunking {
		sessionID = generation.NewSessionID()
	}

	result, err := h.deps.Generator.Generate(ctx, generation.Request{
		Documentation: req.Documentation,
		Language:      req.Language,
		Provider:      req.AIProvider,
		Model:         req.Model,
		Minify:        req.Minify,
		IsJSON:        req.IsJSON,
		UseChunking:   req.UseChunking,
		SessionID:     sessionID,
	})
	if err != nil {
		log.ErrorContext(ctx, "error generating SDK", "provider", req.AIProvider, "error", err.Error())
		respondError(c, statusFor(err), messageFor(err))
		return
	}

	c.JSON(http.StatusOK, generateResponse{SDK: result.SDK, SessionID: sessionID})
}

type progressRequest struct {
	SessionID string `json:"sessionId"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Status    string `json:"status"`
}

func (h *handlers) setProgress(c *gin.Context) {
	ctx := c.Request.Context()

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(c, http.StatusBadRequest, msgSessionRequired)
		return
	}

	status := progress.Status(req.Status)
	if status != "" && !status.Valid() {
		respondError(c, http.StatusBadRequest, msgInvalidStatus)
		return
	}

	p := progress.Progress{Current: req.Current, Total: req.Total, Status: status}
	if err := h.deps.Progress.Set(ctx, req.SessionID, p); err != nil {
		h.deps.Logger.ErrorContext(ctx, "error updating progress", "session_id", req.SessionID, "error", err.Error())
		respondError(c, statusFor(err), "Failed to update progress")
		return
	}

	h.deps.Logger.InfoContext(ctx, "progress updated",
		"session_id", req.SessionID,
		"current", req.Current,
		"total", req.Total,
		"status", req.Status,
	)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) getProgress(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, msgSessionRequired)
		return
	}

	p, err := h.deps.Progress.Get(ctx, sessionID)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "error getting progress", "session_id", sessionID, "error", err.Error())
		respondError(c, http.StatusInternalServerError, "Failed to get progress")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) checkAPIKeys(c *gin.Context) {
	configured := map[model.Provider]bool{}
	if h.deps.Providers != nil {
		configured = h.deps.Providers.Configured()
	}

	apiKeys := make(map[string]bool, len(model.Providers()))
	for _, p := range model.Providers() {
		apiKeys[string(p)] = configured[p]
	}

	h.deps.Logger.InfoContext(c.Request.Context(), "API keys check", "api_keys", apiKeys)
	c.JSON(http.StatusOK, gin.H{"apiKeys": apiKeys})
}

type modelsResponse struct {
	Models       []model.Descriptor `json:"models"`
	DefaultModel string             `json:"defaultModel,omitempty"`
	TokenLimit   int                `json:"tokenLimit,omitempty"`
	Languages    []model.Language   `json:"languages"`
}

func (h *handlers) models(c *gin.Context) {
	resp := modelsResponse{Languages: model.SupportedLanguages()}

	name := c.Query("provider")
	if name == "" {
		resp.Models = []model.Descriptor{}
		for _, p := range model.Providers() {
			resp.Models = append(resp.Models, model.ModelsForProvider(p)...)
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	if !model.IsValidProvider(name) {
		respondError(c, http.StatusBadRequest, msgInvalidProvider)
		return
	}
	p := model.Provider(name)
	resp.Models = model.ModelsForProvider(p)
	resp.DefaultModel = model.DefaultModelFor(p)

	modelID := c.Query("model")
	if modelID == "" {
		modelID = resp.DefaultModel
	} else if _, ok := model.Lookup(p, modelID); !ok {
		respondError(c, http.StatusBadRequest, msgInvalidModel)
		return
	}
	resp.TokenLimit = model.TokenLimitFor(p, modelID)
	c.JSON(http.StatusOK, resp)
}

type clientLogEntry struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
	Source  string         `json:"source"`
}

type clientLogsRequest struct {
	Logs []clientLogEntry `json:"logs" binding:"required"`
}

var clientLogLevels = map[string]logging.Level{
	"debug": logging.LevelDebug,
	"info":  logging.LevelInfo,
	"warn":  logging.LevelWarn,
	"error": logging.LevelError,
}

// clientLogs re-logs browser log batches server side. Entries with an
// unknown level are skipped.
func (h *handlers) clientLogs(c *gin.Context) {
	ctx := c.Request.Context()

	var req clientLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Logs == nil {
		respondError(c, http.StatusBadRequest, msgInvalidLogFormat)
		return
	}

	for _, entry := range req.Logs {
		level, ok := clientLogLevels[entry.Level]
		if !ok {
			continue
		}
		args := []any{"client_side", true, "source", entry.Source}
		if len(entry.Meta) > 0 {
			args = append(args, "meta", entry.Meta)
		}
		h.deps.Logger.LogContext(ctx, level, "[CLIENT] "+entry.Message, args...)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
