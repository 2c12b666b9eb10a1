// Package api exposes the podcast generation pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/verbalist/podcast-studio/podcast"
)

// PodcastGenerator runs the generation pipeline for one request
type PodcastGenerator interface {
	Generate(ctx context.Context, req podcast.GenerationRequest) (*podcast.GenerationResult, error)
}

// VoiceCatalog lists the available synthesis voices
type VoiceCatalog interface {
	Voices(ctx context.Context) []podcast.Voice
}

type generateRequest struct {
	Topic           string `json:"topic"`
	NarratorVoiceID string `json:"narratorVoiceId"`
	HostVoiceID     string `json:"hostVoiceId"`
	GuestVoiceID    string `json:"guestVoiceId"`
	ScriptOverride  string `json:"scriptOverride"`
	AudioOnly       bool   `json:"audioOnly"`
	SourceURL       string `json:"sourceUrl"`
}

type generateResponse struct {
	Script      string                `json:"script"`
	ScriptParts podcast.Tracks        `json:"scriptParts"`
	Audio       *podcast.SpeakerAudio `json:"audio,omitempty"`
	AudioError  string                `json:"audioError,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type voicesResponse struct {
	Voices []podcast.Voice `json:"voices"`
}

// Controller holds the HTTP handlers for the podcast API
type Controller struct {
	generator PodcastGenerator
	catalog   VoiceCatalog
	log       zerolog.Logger
}

// NewController creates the API controller
func NewController(generator PodcastGenerator, catalog VoiceCatalog, log zerolog.Logger) *Controller {
	return &Controller{
		generator: generator,
		catalog:   catalog,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// GeneratePodcast handles POST /api/generate-podcast
func (ctl *Controller) GeneratePodcast(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result, err := ctl.generator.Generate(c.Request.Context(), podcast.GenerationRequest{
		Topic:          req.Topic,
		SourceURL:      req.SourceURL,
		ScriptOverride: req.ScriptOverride,
		AudioOnly:      req.AudioOnly,
		Voices: podcast.VoiceAssignment{
			Narrator: req.NarratorVoiceID,
			Host:     req.HostVoiceID,
			Guest:    req.GuestVoiceID,
		},
	})
	if err != nil {
		ctl.respondGenerateError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Script:      result.Script,
		ScriptParts: result.Tracks,
		Audio:       result.Audio,
		AudioError:  result.AudioError,
	})
}

// Voices handles GET /api/voices; it always answers 200 because the catalog
// falls back to a built-in voice list on upstream failure
func (ctl *Controller) Voices(c *gin.Context) {
	voices := ctl.catalog.Voices(c.Request.Context())
	c.JSON(http.StatusOK, voicesResponse{Voices: voices})
}

// RegisterRoutes attaches the API handlers to the engine
func (ctl *Controller) RegisterRoutes(g *gin.Engine) {
	g.POST("/api/generate-podcast", ctl.GeneratePodcast)
	g.GET("/api/voices", ctl.Voices)
}

func (ctl *Controller) respondGenerateError(c *gin.Context, err error) {
	var validationErr *podcast.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Reason})
		return
	}

	ctl.log.Error().Err(err).Msg("podcast generation failed")

	status := http.StatusInternalServerError
	var exhausted *podcast.ProviderExhaustedError
	if errors.As(err, &exhausted) {
		status = http.StatusBadGateway
	}
	c.JSON(status, errorResponse{Error: "Failed to generate podcast", Details: err.Error()})
}
