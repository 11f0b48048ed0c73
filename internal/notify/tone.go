package notify

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/libilabs/console/internal/event"
)

// SampleRate is the PCM sample rate for all synthesized tones.
const SampleRate = 44100

// ToneSpec describes one notification tone: a sine sweep from StartHz to
// EndHz over Duration. A flat tone sets EndHz == StartHz.
type ToneSpec struct {
	StartHz  float64
	EndHz    float64
	Duration time.Duration
}

// Each event kind gets a distinct signature so operators can tell a new
// order from a chat message without looking at the screen.
var tones = map[event.Kind]ToneSpec{
	event.KindOrderCreated:         {StartHz: 800, EndHz: 1000, Duration: 300 * time.Millisecond},
	event.KindPaymentProofUploaded: {StartHz: 600, EndHz: 600, Duration: 200 * time.Millisecond},
	event.KindPaymentVerified:      {StartHz: 900, EndHz: 1200, Duration: 350 * time.Millisecond},
	event.KindSessionCreated:       {StartHz: 700, EndHz: 850, Duration: 250 * time.Millisecond},
	event.KindMessageReceived:      {StartHz: 650, EndHz: 650, Duration: 150 * time.Millisecond},
}

// ToneFor returns the tone signature for a kind, if it has one.
func ToneFor(kind event.Kind) (ToneSpec, bool) {
	spec, ok := tones[kind]
	return spec, ok
}

// Synthesize renders the tone as 16-bit little-endian mono PCM at SampleRate.
//
// The fundamental sweeps linearly from StartHz to EndHz. A second harmonic
// at half amplitude joins after the midpoint, which gives the tail of the
// tone a brighter character. A short attack ramp and a release over the
// final quarter keep the edges click-free. volume is clamped to [0, 1].
func Synthesize(spec ToneSpec, volume float64) []byte {
	volume = math.Max(0, math.Min(1, volume))
	n := int(float64(SampleRate) * spec.Duration.Seconds())
	if n <= 0 || volume == 0 {
		return nil
	}

	attack := SampleRate / 100 // 10ms
	if attack > n/2 {
		attack = n / 2
	}
	release := n / 4

	out := make([]byte, 2*n)
	phase, phase2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		freq := spec.StartHz + (spec.EndHz-spec.StartHz)*t
		phase += 2 * math.Pi * freq / SampleRate
		phase2 += 2 * math.Pi * 2 * freq / SampleRate

		sample := math.Sin(phase)
		if i >= n/2 {
			sample += 0.5 * math.Sin(phase2)
		}

		env := 1.0
		if i < attack {
			env = float64(i) / float64(attack)
		} else if i >= n-release {
			env = float64(n-i) / float64(release)
		}

		// Headroom for the harmonic so the sum never clips.
		v := sample * env * volume * 0.6
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v*math.MaxInt16)))
	}
	return out
}
