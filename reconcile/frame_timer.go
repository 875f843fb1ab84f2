package reconcile

// frameTimeWeight is the weight of the newest sample in the frame time average.
const frameTimeWeight = 0.2

// FrameTimer keeps an exponential moving average of frame times so that a single slow frame does
// not make smoothed motion jump.
type FrameTimer struct {
	avg    float64
	primed bool
}

// Sample records dt and returns the smoothed frame time. The first sample is returned unchanged.
func (f *FrameTimer) Sample(dt float64) float64 {
	if !f.primed {
		f.avg, f.primed = dt, true
		return dt
	}
	f.avg += (dt - f.avg) * frameTimeWeight
	return f.avg
}

// Reset forgets every sample.
func (f *FrameTimer) Reset() {
	f.avg, f.primed = 0, false
}
