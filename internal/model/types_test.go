package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMessage_String verifies the "text (code)" rendering used in error
// messages and CLI output.
func TestMessage_String(t *testing.T) {
	assert.Equal(t, "some message (1)", NewCodedMessage("some message", 1).String())
	assert.Equal(t, "some message", NewMessage("some message").String())
}

// TestMessage_Categories checks both edges of every half-open code band:
// the first and last code of a band belong to it, and to no other band.
func TestMessage_Categories(t *testing.T) {
	bands := map[Category][2]int{
		CategoryBadData:            {3000, 3999},
		CategoryInvalidData:        {4000, 4999},
		CategoryMissingData:        {5000, 5999},
		CategoryUnsupportedFeature: {6000, 6999},
		CategorySchemaError:        {8000, 8999},
		CategoryAssetError:         {9000, 9999},
	}

	predicates := map[Category]func(Message) bool{
		CategoryBadData:            Message.IsBadData,
		CategoryInvalidData:        Message.IsInvalidData,
		CategoryMissingData:        Message.IsMissingData,
		CategoryUnsupportedFeature: Message.IsUnsupportedFeature,
		CategorySchemaError:        Message.IsSchemaError,
		CategoryAssetError:         Message.IsAssetError,
	}

	for category, codes := range bands {
		for _, code := range codes {
			t.Run(fmt.Sprintf("%s/%d", category, code), func(t *testing.T) {
				m := NewCodedMessage("", code)
				assert.Equal(t, category, m.Category())
				assert.True(t, m.IsValidationError())

				for other, pred := range predicates {
					assert.Equal(t, other == category, pred(m), "predicate for %s", other)
				}
			})
		}
	}
}

// TestMessage_NoCategory verifies codes outside every band, and messages
// without a code, are uncategorized.
func TestMessage_NoCategory(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"no code", NewMessage("boom")},
		{"below bands", NewCodedMessage("boom", 2999)},
		{"gap between bands", NewCodedMessage("boom", 7500)},
		{"above bands", NewCodedMessage("boom", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, CategoryNone, tt.msg.Category())
		})
	}

	// 7500 sits in the gap but is still inside the validation range.
	assert.True(t, NewCodedMessage("", 7500).IsValidationError())
	assert.False(t, NewMessage("").IsValidationError())
	assert.False(t, NewCodedMessage("", 10000).IsValidationError())
}

// TestExecutionError verifies message joining, the exit status and the
// non-empty message invariant.
func TestExecutionError(t *testing.T) {
	t.Run("joins messages with codes", func(t *testing.T) {
		err := NewExecutionError([]Message{
			NewCodedMessage("message 0", 0),
			NewCodedMessage("message 1", 1),
		}, 1)

		assert.Equal(t, "message 0 (0), message 1 (1)", err.Error())
		require.NotNil(t, err.ExitStatus)
		assert.Equal(t, 1, *err.ExitStatus)
		assert.Len(t, err.Messages, 2)
	})

	t.Run("never empty", func(t *testing.T) {
		err := NewExecutionError(nil, 7)
		require.Len(t, err.Messages, 1)
		assert.Contains(t, err.Messages[0].Text, "status 7")
	})
}

// TestErrorTaxonomy verifies every error kind matches ErrTransporter and
// can be extracted with errors.As through wrapping.
func TestErrorTaxonomy(t *testing.T) {
	kinds := []error{
		NewTransporterError("spawn failed"),
		NewOptionError("username", "is required"),
		NewParseError("bad xml"),
		NewExecutionError([]Message{NewMessage("x")}, 1),
	}

	for _, err := range kinds {
		t.Run(fmt.Sprintf("%T", err), func(t *testing.T) {
			wrapped := fmt.Errorf("upload: %w", err)
			assert.True(t, errors.Is(wrapped, ErrTransporter))
		})
	}

	var optErr *OptionError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", NewOptionError("password", "is required")), &optErr))
	assert.Equal(t, "password", optErr.Option)
	assert.Equal(t, "option password: is required", optErr.Error())

	assert.False(t, errors.Is(errors.New("unrelated"), ErrTransporter))
}

// TestTransporterError_Unwrap verifies the OS error stays reachable.
func TestTransporterError_Unwrap(t *testing.T) {
	inner := errors.New("no such file or directory")
	err := WrapTransporterError("failed to start iTMSTransporter", inner)

	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, "failed to start iTMSTransporter: no such file or directory", err.Error())
}

// TestExitCodeFor verifies the mapping from error kinds to CLI exit codes.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"option", NewOptionError("x", "bad"), ExitOptionError},
		{"execution", NewExecutionError(nil, 1), ExitExecutionError},
		{"parse", NewParseError("bad"), ExitParseError},
		{"transporter", NewTransporterError("spawn"), ExitTransporterError},
		{"wrapped option", fmt.Errorf("ctx: %w", NewOptionError("x", "bad")), ExitOptionError},
		{"cli error wins", WrapCLIError(ExitGeneralError, "config", NewParseError("bad")), ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitOptionError, "no package given")
		assert.Equal(t, ExitOptionError, err.Code)
		assert.Equal(t, "no package given", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitGeneralError, "failed to load configuration", inner)
		assert.Contains(t, err.Error(), "permission denied")
		assert.True(t, errors.Is(err, inner))
	})
}
