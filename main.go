package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/verbalist/podcast-studio/internal/ai"
	"github.com/verbalist/podcast-studio/internal/api"
	"github.com/verbalist/podcast-studio/internal/article"
	"github.com/verbalist/podcast-studio/internal/config"
	"github.com/verbalist/podcast-studio/internal/playback"
	"github.com/verbalist/podcast-studio/internal/service"
	"github.com/verbalist/podcast-studio/internal/tts"
	"github.com/verbalist/podcast-studio/podcast"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	topic := flag.String("topic", "", "Podcast topic (local play mode)")
	sourceURL := flag.String("url", "", "URL of an article to base the podcast on (local play mode)")
	scriptFile := flag.String("script", "", "Use a prepared script file instead of generating one")
	playMode := flag.String("play", "", "Play locally instead of serving: all or sections")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := config.NewLogger(cfg.LogLevel)

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create worker pool")
	}
	defer pool.Release()

	synthesizer := tts.NewSynthesizer(tts.Config{
		BaseURL:         cfg.TTS.BaseURL,
		APIKey:          cfg.TTS.APIKey,
		ModelID:         cfg.TTS.ModelID,
		Stability:       cfg.TTS.Stability,
		SimilarityBoost: cfg.TTS.SimilarityBoost,
	}, nil, log)

	generator := service.NewGenerator(
		ai.NewFailoverClient(cfg.Providers, nil, log),
		synthesizer,
		article.NewFetcher(nil),
		pool,
		cfg.DefaultVoices(),
		log,
	)

	if *playMode != "" {
		if err := playLocally(generator, log, *playMode, *topic, *sourceURL, *scriptFile); err != nil {
			log.Fatal().Err(err).Msg("local playback failed")
		}
		return
	}

	router := api.NewRouter(api.NewController(generator, synthesizer, log), log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting podcast server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// playLocally generates a podcast in-process and plays it through the system
// audio player instead of serving HTTP
func playLocally(generator *service.Generator, log zerolog.Logger,
	mode, topic, sourceURL, scriptFile string) error {
	if mode != "all" && mode != "sections" {
		return fmt.Errorf("unknown play mode %q, expected all or sections", mode)
	}

	req := podcast.GenerationRequest{Topic: topic, SourceURL: sourceURL}
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to read script file: %w", err)
		}
		req.ScriptOverride = string(data)
	}

	ctx := context.Background()
	result, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}
	if result.AudioError != "" {
		return fmt.Errorf("audio generation failed, nothing to play")
	}

	fmt.Println(result.Script)

	clips, err := writeClips(result.Audio)
	if err != nil {
		return err
	}

	scheduler := playback.NewScheduler(log)
	scheduler.Install(clips)
	// a final empty install releases the clips and their temp files
	defer scheduler.Install(nil)

	if mode == "sections" {
		return scheduler.PlayBySection(ctx, result.Segments)
	}
	return scheduler.PlayAll(ctx)
}

// writeClips decodes the per-speaker audio into temporary files and wraps
// each in a player-backed clip
func writeClips(audio *podcast.SpeakerAudio) (map[podcast.Speaker]playback.Clip, error) {
	clips := map[podcast.Speaker]playback.Clip{}

	for _, speaker := range podcast.Speakers() {
		encoded := audio.Get(speaker)
		if encoded == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid audio for %s: %w", speaker, err)
		}

		f, err := os.CreateTemp("", fmt.Sprintf("podcast-%s-*.mp3", speaker))
		if err != nil {
			return nil, fmt.Errorf("failed to create audio file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, fmt.Errorf("failed to write audio file: %w", err)
		}
		f.Close()

		clips[speaker] = playback.NewExecClip(f.Name(), nil)
	}

	if len(clips) == 0 {
		return nil, fmt.Errorf("no audio tracks were generated")
	}
	return clips, nil
}
