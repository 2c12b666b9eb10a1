// Package playback sequences per-speaker audio clips on the client side:
// play/pause interactions, a fixed-order play-all mode and a script-order
// play-by-section mode.
package playback

import "time"

// Clip is one speaker's audio handle. Implementations must make Ended
// deliver a signal each time playback reaches the natural end of the clip,
// so schedulers can await completion without knowing the audio backend.
type Clip interface {
	// Play starts or resumes playback from the current position
	Play()
	// Pause stops playback keeping the current position
	Pause()
	// Duration returns the clip length, or 0 when unknown
	Duration() time.Duration
	// Ended yields one signal per natural end of playback
	Ended() <-chan struct{}
	// Release frees any resources held by the clip
	Release()
}
