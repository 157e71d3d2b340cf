// Package testutil provides common test utilities and assertions for addon tests
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertTypeError asserts err is a TypeError BoundaryError with the given message
func AssertTypeError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.IsTypeError(err), "expected TypeError, got %T: %v", err, err)
	assert.Equal(t, "TypeError: "+message, err.Error())
}

// AssertDomainError asserts err is an Error BoundaryError with the given message
func AssertDomainError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err), "expected Error, got %T: %v", err, err)
	assert.Equal(t, "Error: "+message, err.Error())
}
