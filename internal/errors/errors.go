package errors

import (
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType int

const (
	ErrorTypeConfig ErrorType = iota
	ErrorTypeFileSystem
	ErrorTypeArchive
	ErrorTypeSearch
	ErrorTypeIndex
	ErrorTypeWatcher
)

// String returns a string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeArchive:
		return "archive"
	case ErrorTypeSearch:
		return "search"
	case ErrorTypeIndex:
		return "index"
	case ErrorTypeWatcher:
		return "watcher"
	default:
		return "unknown"
	}
}

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s [%s]: %s", e.Type, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(operation, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeConfig,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewFileSystemError creates a new filesystem error
func NewFileSystemError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeFileSystem,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewArchiveError creates a new archive error
func NewArchiveError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeArchive,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewSearchError creates a new search error
func NewSearchError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeSearch,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewIndexError creates a new index error
func NewIndexError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeIndex,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewWatcherError creates a new watcher error
func NewWatcherError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeWatcher,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}
