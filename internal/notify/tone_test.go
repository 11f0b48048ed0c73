package notify

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libilabs/console/internal/event"
)

func TestToneFor(t *testing.T) {
	spec, ok := ToneFor(event.KindOrderCreated)
	require.True(t, ok)
	assert.Equal(t, 800.0, spec.StartHz)
	assert.Equal(t, 1000.0, spec.EndHz)
	assert.Equal(t, 300*time.Millisecond, spec.Duration)

	_, ok = ToneFor(event.KindSessionUpdated)
	assert.False(t, ok)
	_, ok = ToneFor(event.KindConnected)
	assert.False(t, ok)
}

func TestSynthesize_PCMShape(t *testing.T) {
	spec := ToneSpec{StartHz: 650, EndHz: 650, Duration: 150 * time.Millisecond}
	pcm := Synthesize(spec, 1.0)

	wantSamples := SampleRate * 150 / 1000
	require.Len(t, pcm, 2*wantSamples)

	// Attack ramp starts from silence.
	first := int16(binary.LittleEndian.Uint16(pcm[0:2]))
	assert.Equal(t, int16(0), first)

	// The body of the tone is audibly non-zero.
	var peak int16
	for i := 0; i < wantSamples; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		if v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, int16(5000))
}

func TestSynthesize_VolumeScalesAmplitude(t *testing.T) {
	spec := ToneSpec{StartHz: 800, EndHz: 800, Duration: 100 * time.Millisecond}
	loud := Synthesize(spec, 1.0)
	quiet := Synthesize(spec, 0.25)
	require.Equal(t, len(loud), len(quiet))

	peakOf := func(pcm []byte) int16 {
		var peak int16
		for i := 0; i < len(pcm)/2; i++ {
			v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
			if v > peak {
				peak = v
			}
		}
		return peak
	}
	assert.Greater(t, peakOf(loud), 3*peakOf(quiet))
}

func TestSynthesize_ZeroVolumeOrDuration(t *testing.T) {
	assert.Nil(t, Synthesize(ToneSpec{StartHz: 800, EndHz: 800, Duration: time.Second}, 0))
	assert.Nil(t, Synthesize(ToneSpec{StartHz: 800, EndHz: 800}, 1))

	// Out-of-range volume clamps instead of clipping.
	pcm := Synthesize(ToneSpec{StartHz: 800, EndHz: 800, Duration: 50 * time.Millisecond}, 4.0)
	for i := 0; i < len(pcm)/2; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		assert.GreaterOrEqual(t, v, int16(-32000))
		assert.LessOrEqual(t, v, int16(32000))
	}
}
