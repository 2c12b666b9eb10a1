// Package service orchestrates the podcast generation pipeline: script
// generation with provider failover, speaker segmentation and per-speaker
// audio synthesis.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/verbalist/podcast-studio/internal/ai"
	"github.com/verbalist/podcast-studio/internal/script"
	"github.com/verbalist/podcast-studio/podcast"
)

// ScriptGenerator produces a raw podcast script from prompt messages
type ScriptGenerator interface {
	Generate(ctx context.Context, messages []ai.Message) (string, error)
}

// SpeechSynthesizer converts track text into encoded audio; an empty result
// means no audio could be produced
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) string
}

// ArticleFetcher retrieves source material for a topic from a URL
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (content, title string, err error)
}

// Generator is the podcast generation service
type Generator struct {
	llm           ScriptGenerator
	speech        SpeechSynthesizer
	articles      ArticleFetcher
	pool          *ants.Pool
	defaultVoices podcast.VoiceAssignment
	log           zerolog.Logger
}

// NewGenerator creates the generation service. The articles fetcher may be
// nil to disable URL-sourced topics; the pool may be nil to synthesize
// tracks on plain goroutines.
func NewGenerator(llm ScriptGenerator, speech SpeechSynthesizer, articles ArticleFetcher,
	pool *ants.Pool, defaultVoices podcast.VoiceAssignment, log zerolog.Logger) *Generator {
	return &Generator{
		llm:           llm,
		speech:        speech,
		articles:      articles,
		pool:          pool,
		defaultVoices: defaultVoices,
		log:           log.With().Str("component", "service").Logger(),
	}
}

// Generate runs the full pipeline for one request. Script generation failures
// are fatal; audio failures degrade gracefully and never discard the script.
func (g *Generator) Generate(ctx context.Context, req podcast.GenerationRequest) (*podcast.GenerationResult, error) {
	if req.Topic == "" && req.ScriptOverride == "" {
		return nil, &podcast.ValidationError{Reason: "Topic or script is required"}
	}

	scriptText := req.ScriptOverride
	if scriptText == "" && !req.AudioOnly {
		g.log.Info().Str("topic", req.Topic).Msg("generating podcast script")

		raw, err := g.llm.Generate(ctx, g.buildMessages(ctx, req))
		if err != nil {
			return nil, fmt.Errorf("script generation failed: %w", err)
		}
		scriptText = script.Format(raw)
	}

	parsed := script.Parse(scriptText)
	result := &podcast.GenerationResult{
		Script:   scriptText,
		Segments: parsed.Segments,
		Tracks:   parsed.Tracks,
	}

	voices := req.Voices.WithDefaults(g.defaultVoices)
	audio, err := g.synthesizeTracks(ctx, parsed.Tracks, voices)
	if err != nil {
		// the script survives a synthesis-stage failure
		g.log.Error().Err(err).Msg("audio generation stage failed")
		result.AudioError = "Failed to generate audio"
		return result, nil
	}

	result.Audio = audio
	return result, nil
}

// buildMessages assembles the prompt, enriching the topic with fetched
// article content when a source URL is given
func (g *Generator) buildMessages(ctx context.Context, req podcast.GenerationRequest) []ai.Message {
	if req.SourceURL != "" && g.articles != nil {
		content, title, err := g.articles.Fetch(ctx, req.SourceURL)
		if err != nil {
			g.log.Warn().Err(err).Str("url", req.SourceURL).Msg("failed to fetch source article, using topic only")
		} else {
			return ai.ScriptMessagesWithArticle(req.Topic, title, content)
		}
	}
	return ai.ScriptMessages(req.Topic)
}

// synthesizeTracks generates audio for every non-empty track concurrently.
// One track's failure never blocks the others; a scheduling failure of the
// stage itself is returned as an error.
func (g *Generator) synthesizeTracks(ctx context.Context, tracks podcast.Tracks, voices podcast.VoiceAssignment) (*podcast.SpeakerAudio, error) {
	var (
		audio podcast.SpeakerAudio
		mu    sync.Mutex
		wg    sync.WaitGroup
	)

	for _, speaker := range podcast.Speakers() {
		text := tracks.Get(speaker)
		if strings.TrimSpace(text) == "" {
			continue
		}

		sp := speaker
		voice := voices.Get(speaker)
		task := func() {
			defer wg.Done()
			data := g.speech.Synthesize(ctx, text, voice)
			if data == "" {
				g.log.Warn().Stringer("speaker", sp).Msg("no audio produced for speaker")
			}
			mu.Lock()
			audio.Set(sp, data)
			mu.Unlock()
		}

		wg.Add(1)
		if g.pool != nil {
			if err := g.pool.Submit(task); err != nil {
				wg.Done()
				wg.Wait()
				return nil, fmt.Errorf("failed to schedule synthesis for %s: %w", sp, err)
			}
		} else {
			go task()
		}
	}

	wg.Wait()
	return &audio, nil
}
