package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUnwrapsWrappedAppError(t *testing.T) {
	appErr := NotFound("employee not found")
	wrapped := fmt.Errorf("lookup: %w", appErr)

	got := From(wrapped)
	assert.Same(t, appErr, got)
	assert.Equal(t, http.StatusNotFound, got.HttpCode())
	assert.Equal(t, ReasonNotFound, got.Reason())
}

func TestFromPlainErrorBecomesInternal(t *testing.T) {
	cause := errors.New("boom")
	got := From(cause)

	assert.Equal(t, http.StatusInternalServerError, got.HttpCode())
	assert.ErrorIs(t, got, cause)
}

func TestIsComparesReason(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Validation("reassignTo", "bad id"))
	assert.True(t, errors.Is(err, Validation("", "")))
	assert.False(t, errors.Is(err, NotFound("")))
}

func TestDependentRecordsCarriesBreakdown(t *testing.T) {
	err := DependentRecords("reassign first", map[string]any{"requiresReassign": true, "tasks": int64(1)})

	assert.Equal(t, http.StatusConflict, err.HttpCode())
	require.Len(t, err.Details(), 1)
	breakdown, ok := err.Details()[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, breakdown["requiresReassign"])
	assert.Equal(t, int64(1), breakdown["tasks"])
}

func TestIdentityCleanupPendingKeepsResultAndCause(t *testing.T) {
	cause := errors.New("clerk 500")
	err := IdentityCleanupPending("identity account not removed", "result", cause)

	assert.Equal(t, http.StatusBadGateway, err.HttpCode())
	assert.Equal(t, []any{"result"}, err.Details())
	assert.ErrorIs(t, err, cause)
}
