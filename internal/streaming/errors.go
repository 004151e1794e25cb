package streaming

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure
type Kind int

const (
	// KindTransport covers read and decompression failures
	KindTransport Kind = iota + 1
	// KindStructure means no element of the save format was found
	KindStructure
	// KindCanceled means the caller's context ended the walk
	KindCanceled
	// KindInternal is a recovered panic
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStructure:
		return "structure"
	case KindCanceled:
		return "canceled"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

var (
	// ErrTransport matches every KindTransport failure
	ErrTransport = errors.New("failed to read save file")
	// ErrNotSaveFile matches every KindStructure failure
	ErrNotSaveFile = errors.New("not a save file")
	// ErrBusy is returned when a parse is started while another one is running
	ErrBusy = errors.New("a parse is already in progress")
)

// ParseError is the single failure type surfaced by a parse
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	case KindStructure:
		return fmt.Sprintf("%v: %v", ErrNotSaveFile, e.Err)
	default:
		return fmt.Sprintf("parse %s error: %v", e.Kind, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrNotSaveFile:
		return e.Kind == KindStructure
	}
	return false
}

func transportError(err error) error {
	return &ParseError{Kind: KindTransport, Err: err}
}
