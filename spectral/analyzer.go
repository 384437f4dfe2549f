// Package spectral converts raw audio blocks into banded energy features
// and a rising-edge beat pulse. All output is normalized against slowly
// adapting references so sensitivity self-calibrates to input loudness.
package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/vmath"
)

// Features is the per-block output consumed by the envelope tracker and
// the particle system. All energies are normalized to [0, 1].
type Features struct {
	Bass    float64
	Mid     float64
	Treble  float64
	Overall float64
	Beat    bool
}

// Config holds the tunable analysis parameters. Defaults come from the
// parameter package; the control surface may override any of them.
type Config struct {
	BassLowHz    float64
	BassHighHz   float64
	MidHighHz    float64
	TrebleHighHz float64

	// Sensitivity scales band energy before normalization
	Sensitivity float64
	// Smoothing is the exponential carry-over between blocks (0 = none)
	Smoothing float64

	// BeatMargin is the rising-edge threshold above the moving average
	BeatMargin float64
	// RefractorySec suppresses re-triggering for this much audio time
	RefractorySec float64
	// WindowBlocks is the moving-average horizon for beat detection
	WindowBlocks int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		BassLowHz:     parameter.BassLowHz,
		BassHighHz:    parameter.BassHighHz,
		MidHighHz:     parameter.MidHighHz,
		TrebleHighHz:  parameter.TrebleHighHz,
		Sensitivity:   parameter.DefaultSensitivity,
		Smoothing:     parameter.DefaultSmoothing,
		BeatMargin:    parameter.BeatMargin,
		RefractorySec: parameter.BeatRefractorySec,
		WindowBlocks:  parameter.BeatWindowBlocks,
	}
}

// beatMinHistory is how many blocks of context the moving average needs
// before beat detection arms. Prevents spurious beats on startup.
const beatMinHistory = 5

// Analyzer holds the adaptive state carried across blocks. It is owned by
// the audio goroutine and must not be shared.
type Analyzer struct {
	cfg Config

	window   []float64 // precomputed Hann coefficients
	windowed []float64 // scratch buffer, windowed input

	// Exponential smoothing state per signal
	smoothBass, smoothMid, smoothTreble, smoothAmp float64

	// Decaying running maxima used as normalization references
	refBass, refMid, refTreble, refAmp float64

	// Beat detection state
	history   []float64 // normalized bass, ring buffer
	histPos   int
	histLen   int
	wasAbove  bool
	sinceBeat float64 // audio seconds since last detected beat
}

// New creates an analyzer with the given config. Zero fields fall back to
// defaults so a partially filled config stays usable.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.BassHighHz <= cfg.BassLowHz {
		cfg.BassLowHz, cfg.BassHighHz = def.BassLowHz, def.BassHighHz
	}
	if cfg.MidHighHz <= cfg.BassHighHz {
		cfg.MidHighHz = def.MidHighHz
	}
	if cfg.TrebleHighHz <= cfg.MidHighHz {
		cfg.TrebleHighHz = def.TrebleHighHz
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	cfg.Smoothing = vmath.Clamp01(cfg.Smoothing)
	if cfg.BeatMargin <= 0 {
		cfg.BeatMargin = def.BeatMargin
	}
	if cfg.RefractorySec <= 0 {
		cfg.RefractorySec = def.RefractorySec
	}
	if cfg.WindowBlocks <= 0 {
		cfg.WindowBlocks = def.WindowBlocks
	}
	return &Analyzer{
		cfg:       cfg,
		refBass:   parameter.ReferenceFloor,
		refMid:    parameter.ReferenceFloor,
		refTreble: parameter.ReferenceFloor,
		refAmp:    parameter.ReferenceFloor,
		history:   make([]float64, cfg.WindowBlocks),
		sinceBeat: cfg.RefractorySec,
	}
}

// Config returns the active tuning.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// SetSensitivity adjusts input scaling without resetting adaptive state.
func (a *Analyzer) SetSensitivity(v float64) {
	if v > 0 {
		a.cfg.Sensitivity = v
	}
}

// SetSmoothing adjusts the inter-block smoothing coefficient.
func (a *Analyzer) SetSmoothing(v float64) {
	a.cfg.Smoothing = vmath.Clamp01(v)
}

// Analyze computes features for one block. An empty block or non-positive
// sample rate yields zero features; the call never panics across the
// real-time boundary.
func (a *Analyzer) Analyze(block []float64, sampleRate float64) Features {
	if len(block) == 0 || sampleRate <= 0 {
		return Features{}
	}

	a.ensureWindow(len(block))

	var sumSq float64
	for i, s := range block {
		s = vmath.Sanitize(s)
		sumSq += s * s
		a.windowed[i] = s * a.window[i]
	}
	rms := math.Sqrt(sumSq / float64(len(block)))

	spectrum := fft.FFTReal(a.windowed)
	half := len(spectrum) / 2

	// One-sided magnitude, corrected for the Hann window's 0.5 coherent
	// gain, so a full-scale sine recovers its amplitude
	magScale := 4.0 / float64(len(block))
	resolution := sampleRate / float64(len(block))

	bassRaw := bandRMS(spectrum, half, magScale, resolution, a.cfg.BassLowHz, a.cfg.BassHighHz)
	midRaw := bandRMS(spectrum, half, magScale, resolution, a.cfg.BassHighHz, a.cfg.MidHighHz)
	trebleRaw := bandRMS(spectrum, half, magScale, resolution, a.cfg.MidHighHz, a.cfg.TrebleHighHz)

	bass := a.normalize(bassRaw, &a.smoothBass, &a.refBass)
	mid := a.normalize(midRaw, &a.smoothMid, &a.refMid)
	treble := a.normalize(trebleRaw, &a.smoothTreble, &a.refTreble)
	overall := a.normalize(rms, &a.smoothAmp, &a.refAmp)

	beat := a.detectBeat(bass, float64(len(block))/sampleRate)

	return Features{
		Bass:    bass,
		Mid:     mid,
		Treble:  treble,
		Overall: overall,
		Beat:    beat,
	}
}

// normalize applies sensitivity, exponential smoothing, and division by a
// slow-moving running maximum. Output is clamped to [0, 1] and sanitized.
func (a *Analyzer) normalize(raw float64, smooth, ref *float64) float64 {
	raw = vmath.Sanitize(raw) * a.cfg.Sensitivity

	sm := a.cfg.Smoothing
	*smooth = vmath.Sanitize(*smooth*sm + raw*(1-sm))

	if *smooth > *ref {
		*ref += (*smooth - *ref) * parameter.ReferenceRise
	} else {
		*ref *= parameter.ReferenceDecay
		if *ref < parameter.ReferenceFloor {
			*ref = parameter.ReferenceFloor
		}
	}

	return vmath.Clamp01(vmath.Sanitize(*smooth / *ref))
}

// detectBeat fires exactly on the block where normalized bass first rises
// above the moving average plus margin, subject to the refractory interval.
func (a *Analyzer) detectBeat(bass, blockDur float64) bool {
	a.sinceBeat += blockDur

	avg := 0.0
	if a.histLen > 0 {
		sum := 0.0
		for i := 0; i < a.histLen; i++ {
			sum += a.history[i]
		}
		avg = sum / float64(a.histLen)
	}

	above := bass > avg*(1+a.cfg.BeatMargin)
	beat := above && !a.wasAbove &&
		a.histLen >= beatMinHistory &&
		a.sinceBeat >= a.cfg.RefractorySec
	a.wasAbove = above

	if beat {
		a.sinceBeat = 0
	}

	a.history[a.histPos] = bass
	a.histPos = (a.histPos + 1) % len(a.history)
	if a.histLen < len(a.history) {
		a.histLen++
	}

	return beat
}

// bandRMS aggregates magnitude over bins covering [lowHz, highHz).
func bandRMS(spectrum []complex128, half int, magScale, resolution, lowHz, highHz float64) float64 {
	if highHz <= lowHz || resolution <= 0 {
		return 0
	}
	lo := int(lowHz / resolution)
	if lo < 1 {
		lo = 1 // skip DC
	}
	hi := int(math.Ceil(highHz / resolution))
	if hi > half {
		hi = half
	}
	if lo >= hi {
		return 0
	}
	sumSq := 0.0
	for i := lo; i < hi; i++ {
		c := spectrum[i]
		mag := math.Hypot(real(c), imag(c)) * magScale
		sumSq += mag * mag
	}
	return math.Sqrt(sumSq / float64(hi-lo))
}

func (a *Analyzer) ensureWindow(size int) {
	if len(a.window) == size {
		return
	}
	a.window = make([]float64, size)
	a.windowed = make([]float64, size)
	n := float64(size)
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(vmath.Tau*float64(i)/n))
	}
}
