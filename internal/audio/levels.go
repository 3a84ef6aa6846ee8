package audio

import "sync"

// Levels keeps the peak amplitude of the most recent packets so a meter can
// be drawn while recording. Safe for concurrent use.
type Levels struct {
	mu    sync.RWMutex
	peaks []int16
	head  int
	count int
}

// NewLevels returns a history holding up to capacity peaks.
func NewLevels(capacity int) *Levels {
	return &Levels{peaks: make([]int16, max(1, capacity))}
}

// Observe records the peak of one S16LE packet.
func (l *Levels) Observe(packet DataPacket) {
	samples := BytesToInt16(packet)
	if len(samples) == 0 {
		return
	}

	peak := PeakAmplitude(samples)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.peaks[l.head] = peak
	l.head = (l.head + 1) % len(l.peaks)
	if l.count < len(l.peaks) {
		l.count++
	}
}

// Recent returns the stored peaks, oldest first.
func (l *Levels) Recent() []int16 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}

	out := make([]int16, l.count)
	start := (l.head - l.count + len(l.peaks)) % len(l.peaks)
	for i := range out {
		out[i] = l.peaks[(start+i)%len(l.peaks)]
	}

	return out
}

// Reset forgets all peaks.
func (l *Levels) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.head = 0
	l.count = 0
}

// PeakAmplitude returns the largest absolute sample value.
func PeakAmplitude(samples []int16) int16 {
	var peak int16

	for _, s := range samples {
		// -32768 has no positive counterpart
		if s == -32768 {
			return 32767
		}

		if s < 0 {
			s = -s
		}

		peak = max(peak, s)
	}

	return peak
}
