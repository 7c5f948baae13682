package quiz

import (
	"fmt"
	"slices"
)

// Field names an editable part of a question.
type Field string

const (
	// FieldText edits the question text.
	FieldText Field = "text"

	// FieldOption edits the text of the option at Edit.Key.
	FieldOption Field = "option"

	// FieldCorrect marks the option at Edit.Key as the correct one.
	FieldCorrect Field = "correct"

	// FieldAnswer edits the accepted answer of a fill-in-the-blank question.
	FieldAnswer Field = "answer"
)

// Edit is a single field-level change to a question.
type Edit struct {
	Field Field
	Key   string // option key for FieldOption and FieldCorrect
	Value string
}

// EditError reports an edit that cannot be applied to a question.
type EditError struct {
	QuestionID string
	Field      Field
	Message    string
}

func (e *EditError) Error() string {
	return fmt.Sprintf("edit %s of question %s: %s", e.Field, e.QuestionID, e.Message)
}

// Apply returns q with e applied. q itself is never modified.
func Apply(q Question, e Edit) (Question, error) {
	switch q := q.(type) {
	case MultipleChoice:
		return applyMCQ(q, e)
	case FillInTheBlank:
		return applyFill(q, e)
	default:
		return nil, fmt.Errorf("unsupported question type %T", q)
	}
}

func applyMCQ(q MultipleChoice, e Edit) (Question, error) {
	switch e.Field {
	case FieldText:
		q.Text = e.Value
		return q, nil
	case FieldOption:
		return EditOption(q, e.Key, e.Value)
	case FieldCorrect:
		return SelectCorrect(q, e.Key)
	case FieldAnswer:
		return nil, &EditError{QuestionID: q.ID, Field: e.Field, Message: "multiple-choice answers are chosen from the options"}
	}
	return nil, &EditError{QuestionID: q.ID, Field: e.Field, Message: "unknown field"}
}

func applyFill(q FillInTheBlank, e Edit) (Question, error) {
	switch e.Field {
	case FieldText:
		q.Text = e.Value
		return q, nil
	case FieldAnswer:
		q.Answer = e.Value
		return q, nil
	case FieldOption, FieldCorrect:
		return nil, &EditError{QuestionID: q.ID, Field: e.Field, Message: "fill-in-the-blank questions have no options"}
	}
	return nil, &EditError{QuestionID: q.ID, Field: e.Field, Message: "unknown field"}
}

// EditOption replaces the text of the option at key. When that option is
// the correct one, Correct follows the new text. Two options may not share
// a text, so the correct answer always names exactly one option.
func EditOption(q MultipleChoice, key, text string) (MultipleChoice, error) {
	idx := slices.IndexFunc(q.Options, func(o Option) bool { return o.Key == key })
	if idx < 0 {
		return q, &EditError{QuestionID: q.ID, Field: FieldOption, Message: fmt.Sprintf("no option %q", key)}
	}

	for i, o := range q.Options {
		if i != idx && o.Text == text {
			return q, &EditError{QuestionID: q.ID, Field: FieldOption, Message: fmt.Sprintf("option %s already reads %q", o.Key, text)}
		}
	}

	wasCorrect := q.Options[idx].Text == q.Correct

	opts := slices.Clone(q.Options)
	opts[idx].Text = text
	q.Options = opts
	if wasCorrect {
		q.Correct = text
	}
	return q, nil
}

// SelectCorrect marks the option at key as correct.
func SelectCorrect(q MultipleChoice, key string) (MultipleChoice, error) {
	opt, ok := q.Option(key)
	if !ok {
		return q, &EditError{QuestionID: q.ID, Field: FieldCorrect, Message: fmt.Sprintf("no option %q", key)}
	}
	q.Correct = opt.Text
	return q, nil
}
