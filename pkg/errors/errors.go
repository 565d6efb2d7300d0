package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Connection errors (1xxx)
	ErrCodeConnectionFailed     ErrorCode = "SDMO1001"
	ErrCodeConnectionTimeout    ErrorCode = "SDMO1002"
	ErrCodeAuthenticationFailed ErrorCode = "SDMO1003"
	ErrCodeNetworkUnavailable   ErrorCode = "SDMO1004"
	ErrCodeNotConnected         ErrorCode = "SDMO1005"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound    ErrorCode = "SDMO2001"
	ErrCodeConfigInvalid     ErrorCode = "SDMO2002"
	ErrCodeConfigMissing     ErrorCode = "SDMO2003"
	ErrCodeConnectionUnknown ErrorCode = "SDMO2004"
	ErrCodeKeyInvalid        ErrorCode = "SDMO2005"

	// SQL execution errors (4xxx)
	ErrCodeSQLSyntax         ErrorCode = "SDMO4001"
	ErrCodeSQLPermission     ErrorCode = "SDMO4002"
	ErrCodeSQLTimeout        ErrorCode = "SDMO4003"
	ErrCodeSQLObjectNotFound ErrorCode = "SDMO4005"
	ErrCodeSQLExecution      ErrorCode = "SDMO4006"
	ErrCodeLoadFailed        ErrorCode = "SDMO4007"
	ErrCodeNoResults         ErrorCode = "SDMO4008"

	// File system errors (5xxx)
	ErrCodeFileNotFound  ErrorCode = "SDMO5001"
	ErrCodeFileCorrupted ErrorCode = "SDMO5003"
	ErrCodeFileOperation ErrorCode = "SDMO5005"

	// Validation errors (6xxx)
	ErrCodeInvalidInput  ErrorCode = "SDMO6002"
	ErrCodeRequiredField ErrorCode = "SDMO6003"
	ErrCodeUserInput     ErrorCode = "SDMO6004"

	// Generation errors (7xxx)
	ErrCodeTemplate ErrorCode = "SDMO7001"

	// System errors (9xxx)
	ErrCodeInternal           ErrorCode = "SDMO9001"
	ErrCodeTimeout            ErrorCode = "SDMO9002"
	ErrCodeResourceExhausted  ErrorCode = "SDMO9003"
	ErrCodeServiceUnavailable ErrorCode = "SDMO9004"
	ErrCodeResultParsing      ErrorCode = "SDMO9005"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Run cannot continue
	SeverityError    ErrorSeverity = "ERROR"    // Statement failed, run continues
	SeverityWarning  ErrorSeverity = "WARNING"
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	var inner *AppError
	if errors.As(err, &inner) {
		for k, v := range inner.Context {
			appErr.Context[k] = v
		}
		appErr.Recoverable = inner.Recoverable
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// AsFatal marks the error as critical; the run stops when it surfaces.
func (e *AppError) AsFatal() *AppError {
	e.Severity = SeverityCritical
	e.Recoverable = false
	return e
}

func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a connection-related error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityCritical).
		WithSuggestions(
			"Check your network connection",
			"Verify the account identifier in connections.toml",
			"Run 'snowdemo list' to confirm the connection name",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Refer to config.example.yaml",
		)
}

// SQLError creates an SQL execution error, classifying the driver message.
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLExecution, message).
		WithContext("query", truncateString(query, 200))

	causeText := ""
	if cause != nil {
		causeText = strings.ToLower(cause.Error())
	}

	switch {
	case strings.Contains(causeText, "insufficient privileges") || strings.Contains(causeText, "access denied"):
		err.Code = ErrCodeSQLPermission
		_ = err.WithSuggestions(
			"Verify the role has the required privileges",
			"Cortex functions need the SNOWFLAKE.CORTEX_USER database role",
		)
	case strings.Contains(causeText, "timeout"):
		err.Code = ErrCodeSQLTimeout
		_ = err.WithSuggestions(
			"Increase the statement timeout",
			"Use a larger warehouse",
		).AsRecoverable()
	case strings.Contains(causeText, "does not exist") || strings.Contains(causeText, "not found"):
		err.Code = ErrCodeSQLObjectNotFound
		_ = err.WithSuggestions("Run the ddl step before the other steps")
	case strings.Contains(causeText, "syntax error"):
		err.Code = ErrCodeSQLSyntax
	}

	return err
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// IsFatal reports whether err carries critical severity.
func IsFatal(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityCritical
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
