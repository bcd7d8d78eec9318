package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	// Verify all expected error codes exist
	codes := []string{
		ErrConfig,
		ErrConnect,
		ErrCollect,
		ErrControl,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .pgdash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "connect error",
			code:       ErrConnect,
			message:    "Cannot connect to database server",
			suggestion: "Check the host and port in your profile",
		},
		{
			name:       "collect error",
			code:       ErrCollect,
			message:    "Stats collection failed",
			suggestion: "The connection may have dropped; it will be re-established",
		},
		{
			name:       "control error",
			code:       ErrControl,
			message:    "Cancel request failed for pid 4242",
			suggestion: "The backend may have already exited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorInterface(t *testing.T) {
	err := New(ErrConfig, "test message", "test suggestion")

	// Should implement error interface
	var _ error = err

	// Error() should return formatted message
	errStr := err.Error()
	assert.NotEmpty(t, errStr)
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check .pgdash.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check .pgdash.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrConnect, "Connection failed", "Try again"),
			expectedParts: []string{
				"✗",
				"Connection failed",
			},
		},
		{
			name: "error with cause",
			err:  WrapWithCode(errors.New("dial tcp: connection refused"), ErrConnect, "Connect to db1 failed", ""),
			expectedParts: []string{
				"Connect to db1 failed",
				"connection refused",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.True(t, strings.Contains(errStr, part),
					"error string should contain %q, got: %s", part, errStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := Wrap(cause, "something broke")

	require.NotNil(t, err)
	assert.Equal(t, ErrConnect, err.Code)
	assert.Equal(t, cause, err.Cause)
	assert.ErrorIs(t, err, cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("query failed")
	err := WrapWithCode(cause, ErrCollect, "Stats collection failed", "Check the connection")

	require.NotNil(t, err)
	assert.Equal(t, ErrCollect, err.Code)
	assert.Equal(t, "Stats collection failed", err.Message)
	assert.Equal(t, cause, err.Cause)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, "wrapped")

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrConnect, "msg", ""),
			code:     ErrConnect,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrConnect, "msg", ""),
			code:     ErrCollect,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrConnect,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrConnect,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(New(ErrCollect, "inner", ""), "outer"),
			code:     ErrConnect,
			expected: true, // outermost code wins
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCode(tt.err, tt.code))
		})
	}
}
