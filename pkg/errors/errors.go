// Package errors provides the error handling and warning system used across
// phenoscreen. It combines typed, structured errors for the screening pipeline
// (missing inputs, identifier mismatches, degenerate transforms, pivot
// ambiguities) with the estimator-side error types the modeling packages need,
// and attaches stack traces via cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("phenoscreen-warning: %v\n", w)
	}
	// zerolog warn hook, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the process-wide warning handler. Diagnostics that
// are surfaced as warnings rather than errors (dropped identifiers, clamped
// logits) are routed through it.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. Kept separate
// from SetWarningHandler so structured logging can take precedence without
// displacing a caller-installed handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. If a zerolog sink is installed it wins; otherwise the
// plain handler is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Pipeline error types
//
// ===========================================================================

// MissingInputError indicates that a required input file is absent or
// unreadable. This is always fatal: the pipeline cannot proceed without both
// the annotation table and the count matrix.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("phenoscreen: missing input %q: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *MissingInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "MissingInputError")
}

// NewMissingInputError creates a MissingInputError with a stack trace.
func NewMissingInputError(path string, err error) error {
	return errors.WithStack(&MissingInputError{Path: path, Err: err})
}

// IdentifierMismatchWarning reports count-table wells whose normalized
// identifier has no entry in the annotation table. The join drops these rows;
// the warning carries the full list so the loss is never silent.
type IdentifierMismatchWarning struct {
	Wells []string
}

func (w *IdentifierMismatchWarning) Error() string {
	return fmt.Sprintf("%d well identifier(s) have no annotation entry and were dropped: %s",
		len(w.Wells), strings.Join(w.Wells, ", "))
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (w *IdentifierMismatchWarning) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("wells", w.Wells).
		Int("dropped", len(w.Wells)).
		Str("type", "IdentifierMismatchWarning")
}

// NewIdentifierMismatchWarning creates a new IdentifierMismatchWarning.
func NewIdentifierMismatchWarning(wells []string) *IdentifierMismatchWarning {
	return &IdentifierMismatchWarning{Wells: wells}
}

// DegenerateTransformError indicates a logit transform applied at a
// percentage of exactly 0 or 1. With clamping enabled the condition is
// reported through Warn instead; without clamping it is returned as an error
// so infinities never reach the feature matrix unannounced.
type DegenerateTransformError struct {
	Well       string
	Class      string
	Percentage float64
}

func (e *DegenerateTransformError) Error() string {
	return fmt.Sprintf("phenoscreen: logit undefined for well %s class %s (percentage=%g)",
		e.Well, e.Class, e.Percentage)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *DegenerateTransformError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("well", e.Well).
		Str("class", e.Class).
		Float64("percentage", e.Percentage).
		Str("type", "DegenerateTransformError")
}

// NewDegenerateTransformError creates a DegenerateTransformError with a stack trace.
func NewDegenerateTransformError(well, class string, percentage float64) error {
	return errors.WithStack(&DegenerateTransformError{Well: well, Class: class, Percentage: percentage})
}

// Pivot error kinds.
const (
	// PivotDuplicateKey marks a (well, class) pair that appears more than once.
	PivotDuplicateKey = "duplicate key"
	// PivotMissingFeature marks a well that lacks a value for some class.
	PivotMissingFeature = "missing feature"
)

// PivotError indicates that the long-to-wide pivot is ambiguous: either a
// duplicate (well, class) pair or a well missing one of the classes. Both are
// fail-fast conditions; a silent overwrite or fill would corrupt the feature
// matrix.
type PivotError struct {
	Kind  string
	Well  string
	Class string
}

func (e *PivotError) Error() string {
	return fmt.Sprintf("phenoscreen: pivot failed: %s for well %s class %s", e.Kind, e.Well, e.Class)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *PivotError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kind", e.Kind).
		Str("well", e.Well).
		Str("class", e.Class).
		Str("type", "PivotError")
}

// NewPivotError creates a PivotError with a stack trace.
func NewPivotError(kind, well, class string) error {
	return errors.WithStack(&PivotError{Kind: kind, Well: well, Class: class})
}

// ===========================================================================
//
//	Estimator error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on an
// estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("phenoscreen: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError is returned when input dimensions differ from what an
// operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("phenoscreen: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError is returned when a parameter fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("phenoscreen: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError is returned when an argument value is invalid for an operation,
// e.g. a well whose total cell count is zero.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("phenoscreen: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ParseError is returned when an input table cell cannot be parsed, carrying
// the file position for diagnosis.
type ParseError struct {
	Path    string
	Line    int
	Column  string
	Message string
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("phenoscreen: %s:%d: column %q: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("phenoscreen: %s:%d: %s", e.Path, e.Line, e.Message)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("line", e.Line).
		Str("column", e.Column).
		Str("message", e.Message).
		Str("type", "ParseError")
}

// NewParseError creates a ParseError with a stack trace.
func NewParseError(path string, line int, column, message string) error {
	return errors.WithStack(&ParseError{Path: path, Line: line, Column: column, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives an empty table or matrix.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a decomposition fails on a singular matrix.
	ErrSingularMatrix = New("singular matrix")
)
