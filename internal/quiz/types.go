package quiz

// Kind is the question variant as named on the wire.
type Kind string

const (
	KindMCQ       Kind = "mcq"
	KindFillBlank Kind = "fill_in_the_blank"
)

// Question is one quiz item. It is either MultipleChoice or FillInTheBlank.
// Values are treated as immutable: edits return a new Question.
type Question interface {
	// QuestionID returns the identity of the question within its version.
	// It is stable across edits.
	QuestionID() string

	// Prompt returns the question text.
	Prompt() string

	// CorrectAnswer returns the accepted answer text.
	CorrectAnswer() string

	// Kind returns the variant discriminator.
	Kind() Kind

	isQuestion()
}

// Option is one choice of a multiple-choice question.
type Option struct {
	Key  string
	Text string
}

// MultipleChoice is a question answered by picking one of Options.
// Correct always equals the Text of exactly one option.
type MultipleChoice struct {
	ID      string
	Text    string
	Options []Option
	Correct string
}

func (q MultipleChoice) QuestionID() string    { return q.ID }
func (q MultipleChoice) Prompt() string        { return q.Text }
func (q MultipleChoice) CorrectAnswer() string { return q.Correct }
func (MultipleChoice) Kind() Kind              { return KindMCQ }
func (MultipleChoice) isQuestion()             {}

// Option returns the option with the given key.
func (q MultipleChoice) Option(key string) (Option, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// FillInTheBlank is a question answered with free text.
type FillInTheBlank struct {
	ID     string
	Text   string
	Answer string
}

func (q FillInTheBlank) QuestionID() string    { return q.ID }
func (q FillInTheBlank) Prompt() string        { return q.Text }
func (q FillInTheBlank) CorrectAnswer() string { return q.Answer }
func (FillInTheBlank) Kind() Kind              { return KindFillBlank }
func (FillInTheBlank) isQuestion()             {}

// Version is one generated quiz variant. Question order is presentation
// order.
type Version struct {
	Number    int
	Questions []Question
}

// Result is the ordered set of versions returned by one generation call.
type Result []Version
