package qa

import "errors"

var (
	// ErrEmptyQuestion blocks a request whose question or transcript is blank.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNoAudio is returned when a capture produced no frames.
	ErrNoAudio = errors.New("no audio frames captured")
)

const (
	OpCompletion    = "completion"
	OpTranscription = "transcription"
	OpDecode        = "audio decoding"
)

// Failure is the single error shape for a remote or decoding failure. Causes
// are not classified; the underlying error is kept for logging and errors.As.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return f.Op + " failed: " + f.Message()
}

func (f *Failure) Unwrap() error { return f.Err }

// Message returns the underlying error text shown to the user.
func (f *Failure) Message() string {
	if f == nil || f.Err == nil {
		return "unknown error"
	}
	return f.Err.Error()
}

func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	return &Failure{Op: op, Err: err}
}
