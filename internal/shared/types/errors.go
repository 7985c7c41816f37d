package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoProfilesFound       = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrProfileNotFound       = errors.New("profile not found in AWS configuration")
	ErrInvalidSelection      = errors.New("invalid profile selection")
	ErrUnsupportedReportType = errors.New("unsupported report type")
)

// RemoteError carries the outcome of a failed AWS call. Code and Message are
// informational (log and report text); retries never branch on them.
type RemoteError struct {
	Op      string
	Profile string
	Region  string
	Code    string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	scope := e.Profile
	if e.Region != "" {
		scope = fmt.Sprintf("%s/%s", e.Profile, e.Region)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s: %s", e.Op, scope, e.Code, e.Message)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, scope, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
