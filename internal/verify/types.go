package verify

// QuestionType selects which strategy pipeline runs for a question.
type QuestionType string

const (
	// Choice is a (multi-)select question answered with option letters.
	Choice QuestionType = "choice"

	// Blank is a fill-in-the-blank numeric or symbolic answer.
	Blank QuestionType = "blank"

	// Answer is a free-form short answer; verified like Blank.
	Answer QuestionType = "answer"

	// Integral is an indefinite-integral question: the submission is a
	// candidate antiderivative of the question's integrand.
	Integral QuestionType = "integral"
)

// ValidQuestionType reports whether t is one of the known question types.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case Choice, Blank, Answer, Integral:
		return true
	}
	return false
}

// Method records which strategy produced the final verdict.
type Method string

const (
	MethodExact        Method = "exact"
	MethodNumeric      Method = "numeric"
	MethodSymbolic     Method = "symbolic"
	MethodAiDerivative Method = "ai_derivative"
)

// Machine-readable reason codes surfaced in Result.Message.
const (
	MsgEmptyAnswer      = "empty_answer"
	MsgIncorrect        = "incorrect"
	MsgAiUnavailable    = "ai_unavailable"
	MsgMissingIntegrand = "missing_integrand"
)

// Details carries the normalized inputs and, for integral checks, the
// canonical form of the computed derivative. Purely informational.
type Details struct {
	UserAnswer         string `json:"userAnswer,omitempty"`
	ExpectedAnswer     string `json:"expectedAnswer,omitempty"`
	NormalizedUser     string `json:"normalizedUser,omitempty"`
	NormalizedExpected string `json:"normalizedExpected,omitempty"`
	Derivative         string `json:"derivative,omitempty"`
}

// Result is the outcome of a single verification call. It is the only
// thing callers ever receive: parse, evaluation, differentiation and
// oracle failures all fold into an incorrect Result with a reason code,
// never into an error return.
type Result struct {
	Correct bool     `json:"isCorrect"`
	Method  Method   `json:"method"`
	Message string   `json:"message,omitempty"`
	Details *Details `json:"details,omitempty"`
}
