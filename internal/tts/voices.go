package tts

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/verbalist/podcast-studio/podcast"
)

// fallback catalog served when the upstream voice list is unavailable or empty
var fallbackVoices = []podcast.Voice{
	{VoiceID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel (Fallback)"},
	{VoiceID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi (Fallback)"},
	{VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella (Fallback)"},
}

// FallbackVoices returns a copy of the built-in voice catalog
func FallbackVoices() []podcast.Voice {
	voices := make([]podcast.Voice, len(fallbackVoices))
	copy(voices, fallbackVoices)
	return voices
}

// Voices fetches the available voice catalog. It never fails: on upstream
// unavailability or an empty result it returns the built-in fallback catalog.
func (s *Synthesizer) Voices(ctx context.Context) []podcast.Voice {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/voices", http.NoBody)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create voices request")
		return FallbackVoices()
	}
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch voices, serving fallback catalog")
		return FallbackVoices()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Msg("voices request failed, serving fallback catalog")
		return FallbackVoices()
	}

	var result struct {
		Voices []podcast.Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.log.Warn().Err(err).Msg("failed to decode voices response, serving fallback catalog")
		return FallbackVoices()
	}

	if len(result.Voices) == 0 {
		s.log.Info().Msg("no voices in upstream response, serving fallback catalog")
		return FallbackVoices()
	}

	return result.Voices
}
