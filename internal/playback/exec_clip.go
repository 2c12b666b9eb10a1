package playback

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

//go:generate moq -out mocks/command_runner.go -pkg mocks -skip-ensure -fmt goimports . CommandRunner

// CommandRunner builds the audio player command for a file
type CommandRunner interface {
	AudioCommand(filename string) (*exec.Cmd, error)
}

// defaultCommandRunner probes the system for a usable audio player
type defaultCommandRunner struct{}

// AudioCommand returns a command that plays the given file to completion
func (r *defaultCommandRunner) AudioCommand(filename string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", filename), nil
	case "windows":
		return exec.Command("cmd", "/C", "start", "/wait", filename), nil
	case "linux":
		// try several common audio players
		players := []string{"mpv", "mplayer", "ffplay", "aplay"}
		for _, player := range players {
			if _, err := exec.LookPath(player); err == nil {
				if player == "aplay" {
					// #nosec G204 -- player is selected from a whitelist of known audio players
					return exec.Command(player, "-q", filename), nil
				}
				// #nosec G204 -- player is selected from a whitelist of known audio players
				return exec.Command(player, filename, "-nodisp", "-autoexit", "-really-quiet"), nil
			}
		}
		return nil, fmt.Errorf("no suitable audio player found on your system")
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// ExecClip plays an audio file through a system player process. Pause kills
// the player; resuming restarts the file from the beginning, which is the
// closest a process-based backend gets to seekable playback.
type ExecClip struct {
	filename  string
	cmdRunner CommandRunner

	mu      sync.Mutex
	cmd     *exec.Cmd
	ended   chan struct{}
	stopped bool
}

// NewExecClip creates a clip for the given audio file; a nil runner uses the
// system player probe
func NewExecClip(filename string, cmdRunner CommandRunner) *ExecClip {
	if cmdRunner == nil {
		cmdRunner = &defaultCommandRunner{}
	}
	return &ExecClip{
		filename:  filename,
		cmdRunner: cmdRunner,
		ended:     make(chan struct{}, 1),
	}
}

// Play starts the player process; a natural process exit signals Ended
func (c *ExecClip) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd != nil {
		return // already playing
	}

	cmd, err := c.cmdRunner.AudioCommand(c.filename)
	if err != nil {
		// no player available counts as an immediate natural end so
		// sequences do not hang on this clip
		c.signalEnded()
		return
	}

	if err := cmd.Start(); err != nil {
		c.signalEnded()
		return
	}

	c.cmd = cmd
	c.stopped = false

	go func() {
		_ = cmd.Wait()
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cmd = nil
		if !c.stopped {
			c.signalEnded()
		}
	}()
}

// Pause stops the player process without signalling a natural end
func (c *ExecClip) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil || c.cmd.Process == nil {
		return
	}
	c.stopped = true
	_ = c.cmd.Process.Kill()
}

// Duration is unknown for process-based playback
func (c *ExecClip) Duration() time.Duration {
	return 0
}

// Ended yields a signal each time the player exits naturally
func (c *ExecClip) Ended() <-chan struct{} {
	return c.ended
}

// Release stops playback and removes the backing audio file
func (c *ExecClip) Release() {
	c.Pause()
	_ = os.Remove(c.filename)
}

// signalEnded delivers a non-blocking end signal; callers hold c.mu
func (c *ExecClip) signalEnded() {
	select {
	case c.ended <- struct{}{}:
	default:
	}
}
