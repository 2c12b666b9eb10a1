package playback

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/verbalist/podcast-studio/podcast"
)

const (
	// msPerChar is the heuristic speaking time per character used to slice
	// a speaker's single shared clip into per-segment windows
	msPerChar = 75 * time.Millisecond
	// fallbackSectionLimit bounds a section when the clip duration is unknown
	fallbackSectionLimit = 10 * time.Second
)

// Scheduler coordinates playback of up to three speaker clips. At most one
// speaker is playing at any instant; PlayAll and PlayBySection run strictly
// serial sequences, and starting a new sequence cancels the running one.
type Scheduler struct {
	mu      sync.Mutex
	clips   map[podcast.Speaker]Clip
	playing map[podcast.Speaker]bool
	cancel  context.CancelFunc
	seq     uint64 // identity of the active sequence; guards stale cleanups
	log     zerolog.Logger
}

// NewScheduler creates an empty scheduler; Install loads clips into it
func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		clips:   map[podcast.Speaker]Clip{},
		playing: map[podcast.Speaker]bool{},
		log:     log.With().Str("component", "playback").Logger(),
	}
}

// Install replaces the current clips with the ones from a new generation.
// Any running sequence is cancelled, all speakers reset to idle and the
// superseded clips released before the new handles are installed.
func (s *Scheduler) Install(clips map[podcast.Speaker]Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelSequenceLocked()
	s.pauseAllLocked()
	for _, clip := range s.clips {
		clip.Release()
	}

	s.clips = map[podcast.Speaker]Clip{}
	for speaker, clip := range clips {
		if clip != nil {
			s.clips[speaker] = clip
		}
	}
	s.playing = map[podcast.Speaker]bool{}
}

// PlayPause toggles one speaker. Starting a speaker force-idles every other
// playing speaker first, so at most one speaker plays after any call.
func (s *Scheduler) PlayPause(speaker podcast.Speaker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip, ok := s.clips[speaker]
	if !ok {
		return
	}

	if s.playing[speaker] {
		clip.Pause()
		s.playing[speaker] = false
		return
	}

	s.pauseAllLocked()
	s.playing[speaker] = true
	clip.Play()
}

// OnEnded records that a speaker's clip finished naturally. It may fire
// asynchronously at any time.
func (s *Scheduler) OnEnded(speaker podcast.Speaker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing[speaker] = false
}

// IsPlaying reports whether the given speaker is currently playing
func (s *Scheduler) IsPlaying(speaker podcast.Speaker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing[speaker]
}

// PlayingCount returns the number of speakers currently playing
func (s *Scheduler) PlayingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, playing := range s.playing {
		if playing {
			n++
		}
	}
	return n
}

// PlayAll plays the narrator, host and guest clips in that fixed order,
// skipping speakers without audio and waiting for each clip's natural end
// before advancing. The sequence aborts when ctx is cancelled or a newer
// sequence starts.
func (s *Scheduler) PlayAll(ctx context.Context) error {
	seqCtx, seq := s.beginSequence(ctx)

	for _, speaker := range podcast.Speakers() {
		clip, ok := s.startSpeaker(seq, speaker)
		if !ok {
			if seqCtx.Err() != nil {
				return seqCtx.Err()
			}
			continue
		}

		select {
		case <-clip.Ended():
			s.stopSpeaker(seq, speaker, nil)
		case <-seqCtx.Done():
			s.stopSpeaker(seq, speaker, clip)
			return seqCtx.Err()
		}
	}

	return nil
}

// PlayBySection replays the podcast in original script order. Each segment
// resumes its speaker's shared clip from the current position and plays for
// an estimated window of 75ms per character, bounded by the clip duration
// (10s when unknown). Segments whose speaker has no audio are skipped.
// The shared clip is not rewound between segments of the same speaker, so
// the slicing is a best-effort approximation.
func (s *Scheduler) PlayBySection(ctx context.Context, segments []podcast.Segment) error {
	seqCtx, seq := s.beginSequence(ctx)

	for i, segment := range segments {
		clip, ok := s.startSpeaker(seq, segment.Speaker)
		if !ok {
			if seqCtx.Err() != nil {
				return seqCtx.Err()
			}
			s.log.Debug().Stringer("speaker", segment.Speaker).Int("section", i).Msg("no audio for section, skipping")
			continue
		}

		window := sectionWindow(segment.Text, clip.Duration())
		timer := time.NewTimer(window)
		select {
		case <-timer.C:
		case <-clip.Ended():
			// the shared clip ran out before the estimated window
			timer.Stop()
		case <-seqCtx.Done():
			timer.Stop()
			s.stopSpeaker(seq, segment.Speaker, clip)
			return seqCtx.Err()
		}

		s.stopSpeaker(seq, segment.Speaker, clip)
	}

	return nil
}

// sectionWindow estimates how long one segment should hold its clip
func sectionWindow(text string, clipDuration time.Duration) time.Duration {
	limit := fallbackSectionLimit
	if clipDuration > 0 {
		limit = clipDuration
	}

	window := time.Duration(utf8.RuneCountInString(text)) * msPerChar
	if window > limit {
		window = limit
	}
	return window
}

// beginSequence cancels any running sequence, resets every speaker to idle
// and registers a new cancellation token for the caller's sequence
func (s *Scheduler) beginSequence(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelSequenceLocked()
	s.pauseAllLocked()

	seqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	return seqCtx, s.seq
}

// startSpeaker marks a speaker playing and starts its clip; it reports false
// when the speaker has no clip or the sequence has been superseded
func (s *Scheduler) startSpeaker(seq uint64, speaker podcast.Speaker) (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return nil, false
	}
	clip, ok := s.clips[speaker]
	if !ok {
		return nil, false
	}

	s.playing[speaker] = true
	clip.Play()
	return clip, true
}

// stopSpeaker pauses the clip (when given) and marks the speaker idle.
// A sequence that has been superseded must not touch state: the newer
// sequence already owns the clips.
func (s *Scheduler) stopSpeaker(seq uint64, speaker podcast.Speaker, clip Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return
	}
	if clip != nil {
		clip.Pause()
	}
	s.playing[speaker] = false
}

// cancelSequenceLocked cancels the active sequence token, if any
func (s *Scheduler) cancelSequenceLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// pauseAllLocked pauses every clip and resets all speakers to idle
func (s *Scheduler) pauseAllLocked() {
	for speaker, clip := range s.clips {
		clip.Pause()
		s.playing[speaker] = false
	}
}
