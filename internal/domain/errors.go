// Package domain contains domain errors used throughout the application.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrNotRepository    = errors.New("not a repository")
	ErrRepositoryExists = errors.New("repository already exists")
	ErrNoCommits        = errors.New("reference has no commits yet")
	ErrRefNotFound      = errors.New("reference not found")
	ErrBranchExists     = errors.New("branch already exists")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrBranchCheckedOut = errors.New("branch is currently checked out")
	ErrTagExists        = errors.New("tag already exists")
	ErrTagNotFound      = errors.New("tag not found")
	ErrDirtyWorktree    = errors.New("working tree has local modifications")
	ErrNothingToCommit  = errors.New("nothing to commit")
	ErrAuthRequired     = errors.New("authentication required")
	ErrIdentityMissing  = errors.New("commit identity not configured")
	ErrHubNotRunning    = errors.New("event hub is not running")
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// Error codes for client responses.
const (
	ErrCodeNotRepository    = "NOT_REPOSITORY"
	ErrCodeRepositoryExists = "REPOSITORY_EXISTS"
	ErrCodeNoCommits        = "NO_COMMITS"
	ErrCodeRefNotFound      = "REF_NOT_FOUND"
	ErrCodeBranchExists     = "BRANCH_EXISTS"
	ErrCodeTagExists        = "TAG_EXISTS"
	ErrCodeDirtyWorktree    = "DIRTY_WORKTREE"
	ErrCodeAuthRequired     = "AUTH_REQUIRED"
	ErrCodeEngineError      = "ENGINE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// OpError represents a failed repository operation.
type OpError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError.
func NewOpError(op string, err error) *OpError {
	return &OpError{
		Op:  op,
		Err: err,
	}
}

// ErrorCode maps an error to the code reported to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotRepository):
		return ErrCodeNotRepository
	case errors.Is(err, ErrRepositoryExists):
		return ErrCodeRepositoryExists
	case errors.Is(err, ErrNoCommits):
		return ErrCodeNoCommits
	case errors.Is(err, ErrRefNotFound), errors.Is(err, ErrBranchNotFound), errors.Is(err, ErrTagNotFound):
		return ErrCodeRefNotFound
	case errors.Is(err, ErrBranchExists):
		return ErrCodeBranchExists
	case errors.Is(err, ErrTagExists):
		return ErrCodeTagExists
	case errors.Is(err, ErrDirtyWorktree):
		return ErrCodeDirtyWorktree
	case errors.Is(err, ErrAuthRequired):
		return ErrCodeAuthRequired
	default:
		var opErr *OpError
		if errors.As(err, &opErr) {
			return ErrCodeEngineError
		}
		return ErrCodeInternalError
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
