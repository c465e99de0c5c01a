package command

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Sentinel error kinds produced by classification. The filesystem kinds are
// the io/fs sentinels so a classified remote failure compares equal to the
// error a local operation would have produced.
var (
	ErrNotFound         = fs.ErrNotExist
	ErrPermissionDenied = fs.ErrPermission
	ErrAlreadyExists    = fs.ErrExist
	ErrTimeout          = errors.New("command timed out")

	// ErrUnsupported is returned when an operation is not supported by the
	// underlying filesystem, such as symlinks on an in-memory fs.
	ErrUnsupported = errors.New("operation not supported")
)

// Rule maps a stderr substring to an error kind.
type Rule struct {
	Pattern string
	Err     error
}

// DefaultRules are the stock stderr classifications for shell tooling.
var DefaultRules = []Rule{
	{Pattern: "No such file or directory", Err: ErrNotFound},
	{Pattern: "Permission denied", Err: ErrPermissionDenied},
	{Pattern: "File exists", Err: ErrAlreadyExists},
}

// Classifier turns raw command failures into classified errors by substring
// search over an ordered rule list. The zero value applies DefaultRules.
type Classifier struct {
	rules []Rule
	all   error
}

// NewClassifier builds a classifier from caller rules merged with the
// defaults. Caller rules are checked first, so when stderr matches both a
// caller pattern and a default pattern the caller's kind wins; a default
// whose pattern a caller rule shadows is dropped entirely. Rules are checked
// in order and the first match wins.
func NewClassifier(rules ...Rule) Classifier {
	merged := make([]Rule, 0, len(rules)+len(DefaultRules))
	merged = append(merged, rules...)
	for _, d := range DefaultRules {
		shadowed := false
		for _, r := range rules {
			if r.Pattern == d.Pattern {
				shadowed = true
				break
			}
		}
		if !shadowed {
			merged = append(merged, d)
		}
	}
	return Classifier{rules: merged}
}

// ClassifyAll returns a classifier that maps every command failure to kind,
// regardless of what stderr says.
func ClassifyAll(kind error) Classifier {
	return Classifier{all: kind}
}

// Classify inspects a command failure and returns a classified error, or err
// unchanged when no rule matches. Non-command errors pass through untouched.
func (c Classifier) Classify(err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *Error
	if !errors.As(err, &cmdErr) {
		return err
	}
	if c.all != nil {
		return &ClassifiedError{Kind: c.all, cause: cmdErr}
	}
	rules := c.rules
	if rules == nil {
		rules = DefaultRules
	}
	for _, r := range rules {
		if strings.Contains(cmdErr.Stderr, r.Pattern) {
			return &ClassifiedError{Kind: r.Err, cause: cmdErr}
		}
	}
	return err
}

// ClassifiedError is a command failure mapped to a specific error kind. It
// matches the kind through errors.Is and still exposes the underlying *Error
// through errors.As.
type ClassifiedError struct {
	Kind  error
	cause *Error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, strings.TrimSpace(e.cause.Stderr))
}

func (e *ClassifiedError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}
