package tween

import (
	"sort"
	"time"
)

// Keyframe is a required value at a point on a track's local timeline.
type Keyframe struct {
	Time  time.Duration
	Value any
}

type frame struct {
	percent float64
	vec     []float64
	raw     any
}

// Track holds the keyframes of one property and interpolates between them.
//
// Keyframes may be added in any order; Prepare sorts them, decides the
// value kind from the first keyframe and normalises every keyframe to the
// shape of the last one. Step then evaluates the track at a progress percent.
type Track struct {
	property  string
	keyframes []Keyframe
	maxTime   time.Duration

	kind         ValueKind
	frames       []frame
	shape        []int
	gradientType GradientType
	gradientPtr  bool
	spline       bool

	lastFrame   int
	lastPercent float64
}

// NewTrack creates an empty track for property.
func NewTrack(property string) *Track {
	return &Track{property: property}
}

// Property returns the name of the animated property.
func (t *Track) Property() string {
	return t.property
}

// AddKeyframe appends a keyframe. Sorting is deferred to Prepare.
func (t *Track) AddKeyframe(at time.Duration, value any) {
	t.keyframes = append(t.keyframes, Keyframe{Time: at, Value: value})
	if at > t.maxTime {
		t.maxTime = at
	}
}

// Keyframes returns a copy of the keyframes in their current order.
func (t *Track) Keyframes() []Keyframe {
	return append([]Keyframe(nil), t.keyframes...)
}

// Len returns the number of keyframes.
func (t *Track) Len() int {
	return len(t.keyframes)
}

// MaxTime returns the time of the latest keyframe, the track's local duration.
func (t *Track) MaxTime() time.Duration {
	return t.maxTime
}

// Kind returns the value kind decided by the last Prepare.
func (t *Track) Kind() ValueKind {
	return t.kind
}

// SetSpline switches between linear and Catmull-Rom interpolation.
func (t *Track) SetSpline(spline bool) {
	t.spline = spline
}

// Clear drops every keyframe and prepared frame.
func (t *Track) Clear() {
	t.keyframes = nil
	t.frames = nil
	t.maxTime = 0
	t.kind = KindNone
	t.lastFrame, t.lastPercent = 0, 0
}

// Prepare sorts the keyframes, converts their times to percents of maxTime
// and normalises their values. It reports false when there is nothing to
// animate.
func (t *Track) Prepare(maxTime time.Duration) bool {
	t.frames = t.frames[:0]
	t.shape = nil
	t.lastFrame, t.lastPercent = 0, 0
	if len(t.keyframes) == 0 {
		t.kind = KindNone
		return false
	}

	sort.SliceStable(t.keyframes, func(i, j int) bool {
		return t.keyframes[i].Time < t.keyframes[j].Time
	})

	t.kind = detectKind(t.keyframes[0].Value)
	if !t.normalize() {
		t.kind = KindStep
		t.normalize()
	}

	for i, kf := range t.keyframes {
		percent := 1.0
		if maxTime > 0 {
			percent = float64(kf.Time) / float64(maxTime)
		}
		t.frames[i].percent = percent
	}
	return true
}

// normalize fills t.frames from the keyframes according to t.kind. Every
// keyframe takes the shape of the terminal keyframe; missing elements and
// NaN come from the terminal keyframe. It reports false when the keyframes
// cannot be represented as t.kind.
func (t *Track) normalize() bool {
	frames := make([]frame, len(t.keyframes))
	terminal := t.keyframes[len(t.keyframes)-1].Value

	switch t.kind {
	case KindNumber:
		last, ok := toFloat(terminal)
		if !ok {
			return false
		}
		for i, kf := range t.keyframes {
			f, ok := toFloat(kf.Value)
			if !ok {
				f = last
			}
			frames[i].vec = fitVector([]float64{f}, []float64{last})
		}

	case KindVector:
		last, ok := toVector(terminal)
		if !ok {
			return false
		}
		for i, kf := range t.keyframes {
			v, _ := toVector(kf.Value)
			frames[i].vec = fitVector(v, last)
		}

	case KindMatrix:
		last, ok := toMatrix(terminal)
		if !ok {
			return false
		}
		t.shape = make([]int, len(last))
		for i, row := range last {
			t.shape[i] = len(row)
		}
		for i, kf := range t.keyframes {
			m, _ := toMatrix(kf.Value)
			frames[i].vec = flattenMatrix(fitMatrix(m, last))
		}

	case KindColor:
		for i, kf := range t.keyframes {
			s, ok := kf.Value.(string)
			if !ok {
				return false
			}
			c, ok := ParseColor(s)
			if !ok {
				return false
			}
			frames[i].vec = c[:]
		}

	case KindGradient:
		last, ok := toGradient(terminal)
		if !ok {
			return false
		}
		first, _ := toGradient(t.keyframes[0].Value)
		t.gradientType = first.Type
		_, t.gradientPtr = t.keyframes[0].Value.(*Gradient)
		lastFlat := flattenGradient(last)
		for i, kf := range t.keyframes {
			var flat []float64
			if g, ok := toGradient(kf.Value); ok {
				flat = flattenGradient(g)
			}
			frames[i].vec = fitVector(flat, lastFlat)
		}

	default:
		for i, kf := range t.keyframes {
			frames[i].raw = kf.Value
		}
	}

	t.frames = frames
	return true
}

// IsNoop reports whether every prepared keyframe holds the same value.
func (t *Track) IsNoop() bool {
	for i := 1; i < len(t.frames); i++ {
		a, b := t.frames[i-1], t.frames[i]
		if t.kind == KindStep {
			sa, okA := a.raw.(string)
			sb, okB := b.raw.(string)
			if !okA || !okB || sa != sb {
				return false
			}
			continue
		}
		if !equalFloats(a.vec, b.vec) {
			return false
		}
	}
	return true
}

// Final returns the value of the last prepared keyframe.
func (t *Track) Final() (any, bool) {
	if len(t.frames) == 0 {
		return nil, false
	}
	return t.output(len(t.frames) - 1), true
}

// Step evaluates the track at percent of its duration. Percents outside
// [0, 1] extrapolate from the first or last keyframe pair. A percent in
// [0, 1] before the first keyframe holds the first keyframe.
func (t *Track) Step(percent float64) (any, bool) {
	n := len(t.frames)
	switch n {
	case 0:
		return nil, false
	case 1:
		return t.output(0), true
	}

	i := t.search(percent)
	if i == 0 && percent >= 0 && percent < t.frames[0].percent {
		return t.output(0), true
	}
	left, right := t.frames[i], t.frames[i+1]
	span := right.percent - left.percent
	if span == 0 {
		if percent >= right.percent {
			return t.output(i + 1), true
		}
		return t.output(i), true
	}
	w := (percent - left.percent) / span

	if t.kind == KindStep {
		if w <= 0.5 {
			return left.raw, true
		}
		return right.raw, true
	}
	switch w {
	case 0:
		return t.output(i), true
	case 1:
		return t.output(i + 1), true
	}

	out := make([]float64, len(left.vec))
	if t.spline {
		p0 := t.frames[max(i-1, 0)].vec
		p3 := t.frames[min(i+2, n-1)].vec
		for k := range out {
			out[k] = catmullRom(p0[k], left.vec[k], right.vec[k], p3[k], w)
		}
	} else {
		for k := range out {
			out[k] = lerp(left.vec[k], right.vec[k], w)
		}
	}
	return t.decode(out), true
}

// search returns the index i of the keyframe pair [i, i+1] bracketing
// percent. It starts from the previously visited pair and scans forward or
// backward, so monotonic playback costs O(1) per step.
func (t *Track) search(percent float64) int {
	n := len(t.frames)
	var i int
	if percent < t.lastPercent {
		for i = min(t.lastFrame+1, n-1); i >= 0; i-- {
			if t.frames[i].percent <= percent {
				break
			}
		}
		i = min(i, n-2)
	} else {
		for i = t.lastFrame; i < n; i++ {
			if t.frames[i].percent > percent {
				break
			}
		}
		i = min(i-1, n-2)
	}
	i = max(i, 0)
	t.lastFrame, t.lastPercent = i, percent
	return i
}

func (t *Track) output(i int) any {
	if t.kind == KindStep {
		return t.frames[i].raw
	}
	return t.decode(t.frames[i].vec)
}

func (t *Track) decode(vec []float64) any {
	switch t.kind {
	case KindNumber:
		return vec[0]
	case KindVector:
		return append([]float64(nil), vec...)
	case KindMatrix:
		return unflattenMatrix(vec, t.shape)
	case KindColor:
		return RGBA{vec[0], vec[1], vec[2], vec[3]}.String()
	case KindGradient:
		g := unflattenGradient(vec, t.gradientType)
		if t.gradientPtr {
			return &g
		}
		return g
	}
	return nil
}

func lerp(a, b, w float64) float64 {
	return a + (b-a)*w
}

// catmullRom blends p1→p2 using p0 and p3 as tangent guides. It returns p1
// at w=0 and p2 at w=1.
func catmullRom(p0, p1, p2, p3, w float64) float64 {
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	w2 := w * w
	w3 := w2 * w
	return (2*(p1-p2)+v0+v1)*w3 + (-3*(p1-p2)-2*v0-v1)*w2 + v0*w + p1
}
