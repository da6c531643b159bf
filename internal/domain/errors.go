package domain

import "fmt"

// InvalidRequestError represents missing or malformed client input.
type InvalidRequestError struct {
	Detail string
}

func (e InvalidRequestError) Error() string {
	if e.Detail == "" {
		return "invalid request"
	}
	return e.Detail
}

// Is enables errors.Is matching on InvalidRequestError.
func (e InvalidRequestError) Is(target error) bool {
	_, ok := target.(InvalidRequestError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidRequestError)
	return ok
}

// ErrInvalidRequest is the sentinel error for malformed input.
var ErrInvalidRequest = InvalidRequestError{}

// AuthMissingError represents an absent or wrong admin credential.
type AuthMissingError struct{}

func (e AuthMissingError) Error() string {
	return "admin credential missing or invalid"
}

func (e AuthMissingError) Is(target error) bool {
	_, ok := target.(AuthMissingError)
	if ok {
		return true
	}
	_, ok = target.(*AuthMissingError)
	return ok
}

// ErrAuthMissing is the sentinel error for failed admin authorization.
var ErrAuthMissing = AuthMissingError{}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ServiceUnavailableError represents a storage collaborator that is not ready.
type ServiceUnavailableError struct{}

func (e ServiceUnavailableError) Error() string {
	return "storage not available"
}

func (e ServiceUnavailableError) Is(target error) bool {
	_, ok := target.(ServiceUnavailableError)
	if ok {
		return true
	}
	_, ok = target.(*ServiceUnavailableError)
	return ok
}

// ErrServiceUnavailable is the sentinel error for an uninitialized collaborator.
var ErrServiceUnavailable = ServiceUnavailableError{}
