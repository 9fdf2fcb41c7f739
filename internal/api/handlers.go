package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook/internal/game"
	"storybook/internal/game/director"
	"storybook/internal/llm"
	"storybook/internal/observability"
)

const sessionHeader = "X-Session-ID"

// TurnRunner produces the next beat of a story.
type TurnRunner interface {
	RunTurn(ctx context.Context, profile game.PlayerProfile, history game.History) (*game.StoryBeat, error)
}

// Speaker reads text aloud.
type Speaker interface {
	Synthesize(ctx context.Context, text string, lang game.Language) ([]byte, error)
}

// IntroSource supplies the lines shown while the first beat is generated.
type IntroSource interface {
	InitialTransitions(name string, lang game.Language) []string
}

type Handler struct {
	turns  TurnRunner
	speech Speaker
	intros IntroSource
	logger *zap.Logger
}

func NewHandler(turns TurnRunner, speech Speaker, intros IntroSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		turns:  turns,
		speech: speech,
		intros: intros,
		logger: logger.Named("api"),
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	story := router.Group("/api")
	story.POST("/story", h.nextBeat)
	story.GET("/story/intro", h.intro)
	story.POST("/tts", h.textToSpeech)
}

func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if sid := c.GetHeader(sessionHeader); sid != "" {
		ctx = observability.WithSessionID(ctx, sid)
	}
	return ctx
}

func (h *Handler) nextBeat(c *gin.Context) {
	var req storyRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for story", zap.Error(err))
		abortValidation(c, err)
		return
	}
	req.Name = game.SanitizeName(req.Name)
	if err := validate(&req); err != nil {
		h.logger.Warn("Story request failed validation", zap.Error(err))
		abortValidation(c, err)
		return
	}

	beat, err := h.turns.RunTurn(requestContext(c), req.profile(), req.history())
	if err != nil {
		reason := "provider"
		switch {
		case errors.Is(err, director.ErrNoStory):
			reason = "no_story"
		case errors.Is(err, director.ErrMalformedResponse):
			reason = "malformed"
		}
		storyFailuresTotal.WithLabelValues(reason).Inc()
		h.logger.Error("Error generating story beat",
			zap.String("reason", reason),
			zap.Int("history_len", len(req.History)),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error:   "Internal server error",
			Message: "Failed to generate the next story beat",
		})
		return
	}

	c.JSON(http.StatusOK, beat)
}

func (h *Handler) intro(c *gin.Context) {
	req := introRequest{
		Name:     game.SanitizeName(c.Query("name")),
		Language: game.Language(c.Query("language")),
	}
	if err := validate(&req); err != nil {
		abortValidation(c, err)
		return
	}
	c.JSON(http.StatusOK, introResponse{Transitions: h.intros.InitialTransitions(req.Name, req.Language)})
}

func (h *Handler) textToSpeech(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for tts", zap.Error(err))
		abortValidation(c, err)
		return
	}

	audio, err := h.speech.Synthesize(requestContext(c), req.Text, req.Language)
	if err != nil {
		speechRequestsTotal.WithLabelValues(string(req.Language), "error").Inc()
		h.logger.Error("Error generating speech", zap.String("language", string(req.Language)), zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error:   "Failed to generate speech",
			Message: err.Error(),
		})
		return
	}

	speechRequestsTotal.WithLabelValues(string(req.Language), "ok").Inc()
	speechBytes.Observe(float64(len(audio)))
	c.Header("Content-Length", strconv.Itoa(len(audio)))
	c.Data(http.StatusOK, llm.SpeechMIMEType, audio)
}
