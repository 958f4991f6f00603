package domain

import "fmt"

// PreconditionError means a document cannot be narrated at all. It is raised
// before any outbound call and is never retried.
type PreconditionError struct {
	Title  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("document %q: %s", e.Title, e.Reason)
}

// ValidationError means the generative model returned output that does not
// match the expected dialogue shape. The generator retries these up to its
// attempt cap.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid dialogue script: " + e.Reason
}

// ServiceError is a transport, auth or status failure from an external
// service. LineIndex is -1 when the failure is not tied to a dialogue line.
type ServiceError struct {
	Service   string
	LineIndex int
	Err       error
}

func (e *ServiceError) Error() string {
	if e.LineIndex >= 0 {
		return fmt.Sprintf("%s service failed for line %d: %v", e.Service, e.LineIndex, e.Err)
	}
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
