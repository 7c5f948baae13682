package quiz

import (
	"errors"
	"fmt"
)

// Validate checks the per-kind invariants of q.
func Validate(q Question) error {
	switch q := q.(type) {
	case MultipleChoice:
		if q.ID == "" {
			return errors.New("question has no id")
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: multiple-choice question has no options", q.ID)
		}
		seen := make(map[string]bool, len(q.Options))
		matches := 0
		for _, o := range q.Options {
			if seen[o.Key] {
				return fmt.Errorf("question %s: duplicate option key %q", q.ID, o.Key)
			}
			seen[o.Key] = true
			if o.Text == q.Correct {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("question %s: correct answer %q matches %d options, want 1", q.ID, q.Correct, matches)
		}
		return nil
	case FillInTheBlank:
		if q.ID == "" {
			return errors.New("question has no id")
		}
		return nil
	case nil:
		return errors.New("nil question")
	default:
		return fmt.Errorf("unsupported question type %T", q)
	}
}

// ValidateVersion checks every question of v and that ids are unique.
func ValidateVersion(v Version) error {
	if v.Number < 1 {
		return fmt.Errorf("version number %d is not positive", v.Number)
	}
	ids := make(map[string]bool, len(v.Questions))
	for _, q := range v.Questions {
		if err := Validate(q); err != nil {
			return fmt.Errorf("version %d: %w", v.Number, err)
		}
		if ids[q.QuestionID()] {
			return fmt.Errorf("version %d: duplicate question id %q", v.Number, q.QuestionID())
		}
		ids[q.QuestionID()] = true
	}
	return nil
}
