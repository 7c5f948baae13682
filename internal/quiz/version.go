package quiz

import (
	"fmt"
	"slices"
)

// Index returns the position of the question with id, or -1.
func (v Version) Index(id string) int {
	return slices.IndexFunc(v.Questions, func(q Question) bool { return q.QuestionID() == id })
}

// Question returns the question with id.
func (v Version) Question(id string) (Question, bool) {
	i := v.Index(id)
	if i < 0 {
		return nil, false
	}
	return v.Questions[i], true
}

// Replace returns a copy of v in which the question with q's id is q.
// Other question values are shared, not rebuilt.
func (v Version) Replace(q Question) (Version, error) {
	i := v.Index(q.QuestionID())
	if i < 0 {
		return v, fmt.Errorf("version %d has no question %q", v.Number, q.QuestionID())
	}
	qs := slices.Clone(v.Questions)
	qs[i] = q
	v.Questions = qs
	return v, nil
}

// Edit applies e to the question with id and returns the updated version
// along with the new question value.
func (v Version) Edit(id string, e Edit) (Version, Question, error) {
	q, ok := v.Question(id)
	if !ok {
		return v, nil, fmt.Errorf("version %d has no question %q", v.Number, id)
	}
	updated, err := Apply(q, e)
	if err != nil {
		return v, nil, err
	}
	nv, err := v.Replace(updated)
	if err != nil {
		return v, nil, err
	}
	return nv, updated, nil
}

// Clone returns a copy of r whose version and question slices are distinct
// from r's, so a working copy can be edited without touching the received
// result. Question values themselves are immutable and shared.
func (r Result) Clone() Result {
	if r == nil {
		return nil
	}
	out := make(Result, len(r))
	for i, v := range r {
		out[i] = Version{Number: v.Number, Questions: slices.Clone(v.Questions)}
	}
	return out
}

// QuestionCount returns the total number of questions across versions.
func (r Result) QuestionCount() int {
	n := 0
	for _, v := range r {
		n += len(v.Questions)
	}
	return n
}

// Label returns the tab label for the version at position i.
func Label(i int) string {
	return fmt.Sprintf("Quiz Version %d", i+1)
}
