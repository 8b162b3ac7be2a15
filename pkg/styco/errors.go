package styco

import (
	"errors"
)

// Failure conditions of a refactor invocation. Every error returned by
// Refactorer wraps exactly one of these.
var (
	// ErrParse means the document is not syntactically analyzable.
	ErrParse = errors.New("could not analyze document")
	// ErrNoElement means no markup element contains the cursor offset.
	ErrNoElement = errors.New("no element/attribute found")
	// ErrEmptyName means the user declined or cleared the name prompt.
	ErrEmptyName = errors.New("no component name given")
	// ErrInvalidName means the name cannot be used as a const identifier.
	ErrInvalidName = errors.New("invalid component name")
	// ErrEditApplication means the edit batch could not be applied or saved.
	ErrEditApplication = errors.New("could not update document")
)

// UserMessage returns the text to show for err. It is empty for a nil
// error and for ErrEmptyName, which aborts silently.
func UserMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrEmptyName):
		return ""
	case errors.Is(err, ErrParse):
		return ErrParse.Error()
	case errors.Is(err, ErrNoElement):
		return ErrNoElement.Error()
	case errors.Is(err, ErrInvalidName):
		return err.Error()
	case errors.Is(err, ErrEditApplication):
		return ErrEditApplication.Error()
	default:
		return err.Error()
	}
}

// IsSilent reports whether err should end the invocation without a message.
func IsSilent(err error) bool {
	return errors.Is(err, ErrEmptyName)
}
