package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Sink plays raw PCM audio.
//
// Unlock must be called once, from a user-initiated action, before the first
// Play. Playing before Unlock is not an error: the sound is skipped. This
// mirrors how audio output works in sandboxed frontends, where a device can
// only be acquired in response to user input.
type Sink interface {
	Unlock() error
	Play(pcm []byte) error
}

// Player is the oto-backed Sink. The zero value is not usable; use NewPlayer.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger
	ctx    *oto.Context
}

// NewPlayer returns a locked Player. No audio device is touched until Unlock.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{logger: logger}
}

// Unlock acquires the audio device. Safe to call more than once.
func (p *Player) Unlock() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx != nil {
		return nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("notify: open audio device: %w", err)
	}
	<-ready
	p.ctx = ctx
	p.logger.Debug("audio device unlocked")
	return nil
}

// Play starts the PCM clip and returns without waiting for it to finish.
// Before Unlock it is a no-op with a warning.
func (p *Player) Play(pcm []byte) error {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil {
		p.logger.Warn("audio not unlocked, skipping sound")
		return nil
	}
	if len(pcm) == 0 {
		return nil
	}

	player := ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.logger.Warn("closing audio player", "error", err)
		}
	}()
	return nil
}
