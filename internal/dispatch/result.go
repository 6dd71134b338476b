package dispatch

import (
	"errors"
	"strings"
)

// Error kinds every adapter failure is classified under. Adapters wrap them
// with fmt.Errorf("%w: ...") so errors.Is keeps working on the result.
var (
	ErrNetwork             = errors.New("provider unreachable")
	ErrSchema              = errors.New("unexpected provider response")
	ErrNotFound            = errors.New("no matching content")
	ErrAmbiguous           = errors.New("ambiguous lookup")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEmptyQuery          = errors.New("query is empty")
)

// Result is the normalized outcome of one adapter call: either Success(text)
// or Failure(err). The zero value is an empty success.
type Result struct {
	Provider Name
	Text     string
	Err      error
}

// Success wraps adapter output text.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure wraps an adapter error. A nil error is turned into ErrSchema so a
// failure can never be mistaken for a success.
func Failure(err error) Result {
	if err == nil {
		err = ErrSchema
	}
	return Result{Err: err}
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message is the user-facing text: the output on success, the error text on failure.
func (r Result) Message() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

// Is reports whether a failed result is of the given kind.
func (r Result) Is(kind error) bool {
	return r.Err != nil && errors.Is(r.Err, kind)
}

// WithProvider tags the result with the provider that produced it.
func (r Result) WithProvider(name Name) Result {
	r.Provider = name
	return r
}

// Join concatenates several results into one block of text. Each result is
// placed under a [provider] heading; failures contribute their message.
func Join(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if r.Provider != "" {
			sb.WriteString("[" + string(r.Provider) + "]\n")
		}
		sb.WriteString(r.Message())
	}
	return sb.String()
}
