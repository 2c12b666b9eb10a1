// Package tts converts per-speaker script text into audio through an
// ElevenLabs-compatible text-to-speech API.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	synthesisTimeout = 30 * time.Second

	// maxSynthesisChars caps the text sent to the TTS API to stay within
	// provider credit limits; the script shown to the caller is never cut
	maxSynthesisChars = 800
	truncationNotice  = " [Text truncated to fit within character limit]"
)

// Config holds the synthesis transport settings
type Config struct {
	BaseURL         string
	APIKey          string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
}

// Synthesizer generates speech audio for script tracks. It never returns an
// error to its caller: any failure degrades to "no audio for this speaker".
type Synthesizer struct {
	cfg        Config
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewSynthesizer creates a synthesizer with the given transport settings
func NewSynthesizer(cfg Config, httpClient HTTPClient, log zerolog.Logger) *Synthesizer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: synthesisTimeout}
	}
	return &Synthesizer{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log.With().Str("component", "tts").Logger(),
	}
}

// synthesisRequest is the TTS API request body
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text into base64-encoded audio using the given voice.
// It returns the empty string when the text is blank, the voice pairing is
// invalid, or synthesis fails for any reason.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voiceID string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if voiceID == "" {
		s.log.Warn().Msg("no voice ID assigned, skipping synthesis")
		return ""
	}

	processed := TruncateForSpeech(text)

	requestBody, err := json.Marshal(synthesisRequest{
		Text:    processed,
		ModelID: s.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       s.cfg.Stability,
			SimilarityBoost: s.cfg.SimilarityBoost,
		},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal synthesis request")
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	url := s.cfg.BaseURL + "/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		s.log.Error().Err(err).Str("voice", voiceID).Msg("failed to create synthesis request")
		return ""
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	s.log.Info().Str("voice", voiceID).Int("text_length", len(processed)).Msg("generating audio")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Error().Err(err).Str("voice", voiceID).Msg("synthesis request failed")
		return ""
	}
	defer resp.Body.Close()

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Error().Err(err).Str("voice", voiceID).Msg("failed to read synthesis response")
		return ""
	}

	if resp.StatusCode != http.StatusOK {
		s.log.Error().Str("voice", voiceID).Int("status", resp.StatusCode).
			Str("detail", decodeErrorDetail(audioData)).Msg("synthesis failed")
		return ""
	}

	if len(audioData) == 0 {
		s.log.Error().Str("voice", voiceID).Msg("empty audio response")
		return ""
	}

	return base64.StdEncoding.EncodeToString(audioData)
}

// TruncateForSpeech applies the synthesis length policy: text longer than the
// limit is cut at the last sentence terminator at or before the limit when one
// exists, hard-cut at the limit otherwise, and suffixed with a truncation
// notice. Text within the limit passes through unchanged.
func TruncateForSpeech(text string) string {
	if len(text) <= maxSynthesisChars {
		return text
	}

	cut := maxSynthesisChars
	if idx := strings.LastIndex(text[:maxSynthesisChars], "."); idx > 0 {
		cut = idx + 1
	}

	return text[:cut] + truncationNotice
}

// decodeErrorDetail extracts a structured error from a raw error body for
// logging; the raw body is returned when it is not the expected shape
func decodeErrorDetail(body []byte) string {
	var parsed struct {
		Detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail.Message != "" {
		return fmt.Sprintf("%s: %s", parsed.Detail.Status, parsed.Detail.Message)
	}
	return string(body)
}
