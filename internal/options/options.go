package options

import "fmt"

// Question count and version count bounds.
const (
	MinQuestions = 1
	MaxQuestions = 40
	MinVersions  = 1
	MaxVersions  = 7
)

// TypeMix selects which question kinds the service should produce.
type TypeMix string

const (
	MCQOnly  TypeMix = "mcq_only"
	FillOnly TypeMix = "fill_only"
	Mixed    TypeMix = "mixed"
)

// TypeMixes lists the mixes in display order.
var TypeMixes = []TypeMix{MCQOnly, FillOnly, Mixed}

// Label returns the human-readable label for the mix.
func (t TypeMix) Label() string {
	switch t {
	case MCQOnly:
		return "MCQs Only"
	case FillOnly:
		return "Fill-in-the-Blanks"
	case Mixed:
		return "Mixed"
	}
	return string(t)
}

// Valid reports whether t is one of the known mixes.
func (t TypeMix) Valid() bool {
	switch t {
	case MCQOnly, FillOnly, Mixed:
		return true
	}
	return false
}

// ParseTypeMix converts s into a TypeMix.
func ParseTypeMix(s string) (TypeMix, error) {
	t := TypeMix(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type mix %q (want mcq_only, fill_only or mixed)", s)
	}
	return t, nil
}

// Options are the generation parameters chosen by the user.
type Options struct {
	QuestionCount int
	TypeMix       TypeMix
	VersionCount  int
}

// Default returns the options preselected when the app starts.
func Default() Options {
	return Options{
		QuestionCount: 10,
		TypeMix:       MCQOnly,
		VersionCount:  1,
	}
}

// WithQuestionCount returns o with the question count clamped into range.
func (o Options) WithQuestionCount(n int) Options {
	o.QuestionCount = clamp(n, MinQuestions, MaxQuestions)
	return o
}

// WithVersionCount returns o with the version count clamped into range.
func (o Options) WithVersionCount(n int) Options {
	o.VersionCount = clamp(n, MinVersions, MaxVersions)
	return o
}

// WithTypeMix returns o with the given mix. Unknown mixes leave o unchanged.
func (o Options) WithTypeMix(t TypeMix) Options {
	if t.Valid() {
		o.TypeMix = t
	}
	return o
}

// NextTypeMix returns o with the mix advanced by delta positions, wrapping.
func (o Options) NextTypeMix(delta int) Options {
	idx := 0
	for i, t := range TypeMixes {
		if t == o.TypeMix {
			idx = i
			break
		}
	}
	n := len(TypeMixes)
	o.TypeMix = TypeMixes[((idx+delta)%n+n)%n]
	return o
}

// Normalize clamps every field into its domain.
func (o Options) Normalize() Options {
	o = o.WithQuestionCount(o.QuestionCount).WithVersionCount(o.VersionCount)
	if !o.TypeMix.Valid() {
		o.TypeMix = MCQOnly
	}
	return o
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
