package trace

import (
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric names, in report order.
const (
	RMSMean        = "rms_mean"
	EnvMean        = "env_mean"
	PeakCount      = "peak_count"
	Mean           = "mean"
	Median         = "median"
	MAD            = "mad"
	RMSDiff        = "rms_diff"
	IQR            = "iqr"
	Skew           = "skew"
	Kurtosis       = "kurtosis"
	ZeroCrossing   = "zero_crossing"
	MeanAbsDiff    = "mean_abs_diff"
	PSDMean        = "psd_mean"
	PSDHighRatio   = "psd_high_ratio"
	ShannonEntropy = "shannon_entropy"
)

// MetricNames lists every metric Analyze computes.
var MetricNames = []string{
	RMSMean, EnvMean, PeakCount, Mean, Median, MAD, RMSDiff, IQR,
	Skew, Kurtosis, ZeroCrossing, MeanAbsDiff, PSDMean, PSDHighRatio, ShannonEntropy,
}

// DefaultSampleRate is the oscilloscope sample rate in Hz.
const DefaultSampleRate = 200e6

const (
	// rmsWindow is the rolling RMS window in samples.
	rmsWindow = 500

	// entropyBins is the histogram resolution for the Shannon entropy.
	entropyBins = 50

	// madScale turns a median absolute deviation into a normal sigma estimate.
	madScale = 1.4826

	// welchSegment is the longest Welch segment in samples.
	welchSegment = 1024
)

// Metrics maps metric names to values for one trace section.
type Metrics map[string]float64

// Analyze computes the metrics of a section sampled at DefaultSampleRate.
func Analyze(section []float64) Metrics {
	return AnalyzeAt(section, DefaultSampleRate)
}

// AnalyzeAt computes the metrics of a section sampled at fs Hz. The baseline,
// the mean of the first 5% of the samples, is removed first; the peak
// threshold is four MAD sigmas of that same leading window. A section that is
// empty or holds a non-finite sample yields NaN for every metric.
func AnalyzeAt(section []float64, fs float64) Metrics {
	n := len(section)
	m := Metrics{}
	if n == 0 || !finite(section) {
		for _, name := range MetricNames {
			m[name] = math.NaN()
		}
		return m
	}

	pre := max(1, n/20)
	x := slices.Clone(section)
	floats.AddConst(-stat.Mean(section[:pre], nil), x)
	sigma := madSigma(x[:pre])

	d := diff(x)
	freqs, psd := welch(x, fs, min(welchSegment, n))

	m[RMSMean] = mean(rollingRMS(x, min(rmsWindow, n)))
	m[EnvMean] = mean(envelope(x))
	m[PeakCount] = float64(countAbove(x, 4*sigma))
	m[Mean] = stat.Mean(x, nil)
	m[Median] = median(x)
	m[MAD] = madSigma(x)
	m[RMSDiff] = math.Sqrt(meanSquare(d))
	m[IQR] = percentile(x, 75) - percentile(x, 25)
	m[Skew], m[Kurtosis] = moments(x)
	m[ZeroCrossing] = float64(zeroCrossings(x))
	m[MeanAbsDiff] = meanAbs(d)
	m[PSDMean] = mean(psd)
	m[PSDHighRatio] = highRatio(freqs, psd, fs/4)
	m[ShannonEntropy] = entropy(histogram(x, entropyBins))
	return m
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

func meanSquare(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Dot(x, x) / float64(len(x))
}

func meanAbs(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Norm(x, 1) / float64(len(x))
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	floats.SubTo(d, x[1:], x[:len(x)-1])
	return d
}

func median(x []float64) float64 {
	return percentile(x, 50)
}

// percentile interpolates linearly between closest ranks, the
// (n-1)p positioning of NumPy's default. stat.Quantile only offers the
// empirical and np positioned estimators, which disagree on short sections.
func percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := slices.Clone(x)
	slices.Sort(s)
	pos := p / 100 * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return s[lo] + (s[hi]-s[lo])*(pos-float64(lo))
}

func madSigma(x []float64) float64 {
	med := median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return madScale * median(dev)
}

// rollingRMS is the RMS over every full window of w samples, kept as a
// running sum of squares.
func rollingRMS(x []float64, w int) []float64 {
	if w <= 0 || len(x) < w {
		return nil
	}
	out := make([]float64, len(x)-w+1)
	sum := floats.Dot(x[:w], x[:w])
	out[0] = math.Sqrt(math.Max(sum, 0) / float64(w))
	for i := 1; i < len(out); i++ {
		sum += x[i+w-1]*x[i+w-1] - x[i-1]*x[i-1]
		out[i] = math.Sqrt(math.Max(sum, 0) / float64(w))
	}
	return out
}

func countAbove(x []float64, t float64) int {
	n := 0
	for _, v := range x {
		if math.Abs(v) > t {
			n++
		}
	}
	return n
}

// moments returns the skewness and excess kurtosis using the population
// standard deviation.
func moments(x []float64) (skew, kurt float64) {
	m2 := stat.Moment(2, x, nil)
	std := math.Sqrt(m2)
	return stat.Moment(3, x, nil) / (std * std * std), stat.Moment(4, x, nil)/(m2*m2) - 3
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// zeroCrossings counts sign changes between consecutive samples, counting
// a step to or from an exact zero as a change.
func zeroCrossings(x []float64) int {
	n := 0
	for i := 1; i < len(x); i++ {
		if sign(x[i]) != sign(x[i-1]) {
			n++
		}
	}
	return n
}

// histogram returns the probability density over bins equal-width bins
// spanning the data range. The last bin includes the maximum.
func histogram(x []float64, bins int) []float64 {
	s := slices.Clone(x)
	slices.Sort(s)
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, s, nil)
	floats.Scale(1/(float64(len(s))*width), counts)
	return counts
}

// entropy is the Shannon entropy in nats of the normalized distribution,
// with a small floor so empty bins stay finite.
func entropy(density []float64) float64 {
	p := slices.Clone(density)
	floats.AddConst(1e-12, p)
	floats.Scale(1/floats.Sum(p), p)
	return stat.Entropy(p)
}

// envelope is the magnitude of the analytic signal of x, built by zeroing
// the negative half of its spectrum.
func envelope(x []float64) []float64 {
	n := len(x)
	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}
	fft := fourier.NewCmplxFFT(n)
	coeff := fft.Coefficients(nil, seq)

	// coefficient 0 and, for even n, n/2 are kept; the positive half is
	// doubled and the rest dropped.
	for k := 1; k < n; k++ {
		switch {
		case 2*k < n:
			coeff[k] *= 2
		case 2*k > n:
			coeff[k] = 0
		}
	}
	analytic := fft.Sequence(nil, coeff)

	env := make([]float64, n)
	for i, c := range analytic {
		env[i] = cmplx.Abs(c) / float64(n)
	}
	return env
}

// hann returns the periodic Hann window of length n.
func hann(n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	return window.Hann(w)[:n]
}

// welch estimates the one-sided power spectral density of x with
// Hann-windowed segments of nperseg samples overlapping by half, each with
// its mean removed. It returns the bin frequencies and densities in units²/Hz.
func welch(x []float64, fs float64, nperseg int) (freqs, psd []float64) {
	if nperseg <= 0 || len(x) < nperseg {
		return nil, nil
	}
	noverlap := nperseg / 2
	step := nperseg - noverlap
	segments := (len(x) - noverlap) / step

	w := hann(nperseg)
	scale := 1 / (fs * floats.Dot(w, w))

	fft := fourier.NewFFT(nperseg)
	bins := nperseg/2 + 1
	psd = make([]float64, bins)
	seg := make([]float64, nperseg)
	var coeff []complex128
	for s := 0; s < segments; s++ {
		copy(seg, x[s*step:s*step+nperseg])
		floats.AddConst(-stat.Mean(seg, nil), seg)
		floats.Mul(seg, w)
		coeff = fft.Coefficients(coeff, seg)
		for k, c := range coeff {
			p := real(c)*real(c) + imag(c)*imag(c)
			if k != 0 && !(nperseg%2 == 0 && k == bins-1) {
				p *= 2
			}
			psd[k] += p * scale
		}
	}
	floats.Scale(1/float64(segments), psd)

	freqs = make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(nperseg)
	}
	return freqs, psd
}

// highRatio is the share of spectral power above cutoff.
func highRatio(freqs, psd []float64, cutoff float64) float64 {
	if len(psd) == 0 {
		return math.NaN()
	}
	var high, total float64
	for k, p := range psd {
		total += p
		if freqs[k] > cutoff {
			high += p
		}
	}
	return high / total
}
