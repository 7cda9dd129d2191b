package fontsubset

import (
	"errors"
	"fmt"
)

// Kind classifies the errors which terminate a subsetting run.
type Kind int

const (
	// KindUnknown is reported for errors not created by this module.
	KindUnknown Kind = iota
	// KindConfig flags an invalid configuration, detected before any I/O.
	KindConfig
	// KindDownload flags network failures, non-success status codes and
	// exceeded redirect or time limits.
	KindDownload
	// KindParse flags input which is not a usable font.
	KindParse
	// KindRangeExpression flags a malformed custom range token.
	KindRangeExpression
	// KindEmptySelection flags a selection strategy which kept no codepoints.
	KindEmptySelection
	// KindSubsetEncoding flags a failure to subset or encode a group.
	KindSubsetEncoding
	// KindIO flags filesystem and archive failures.
	KindIO
)

// String returns a human-readable representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindDownload:
		return "DownloadError"
	case KindParse:
		return "ParseError"
	case KindRangeExpression:
		return "RangeExpressionError"
	case KindEmptySelection:
		return "EmptySelectionError"
	case KindSubsetEncoding:
		return "SubsetEncodingError"
	case KindIO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error is an error of a known kind, raised by operation Op.
type Error struct {
	Kind Kind
	Op   string // operation which failed, e.g. "download"
	Err  error  // underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps err into an *Error of the given kind. An err which already
// is an *Error of the same kind is returned as is, and a nil err stays nil.
func WrapError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates an *Error of the given kind with a formatted message.
func Errorf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
