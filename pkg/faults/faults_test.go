package faults_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/ecoscore/pkg/faults"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", faults.Validation("month", "month must be 12 or less"), http.StatusBadRequest},
		{"not found", faults.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("monthly winner %w", faults.ErrNotFound), http.StatusNotFound},
		{"conflict", faults.ErrConflict, http.StatusConflict},
		{"storage", faults.Storage("insert archive", errors.New("connection reset")), http.StatusInternalServerError},
		{"storage wrapping not found", faults.Storage("find", faults.ErrNotFound), http.StatusNotFound},
		{"consistency", &faults.ConsistencyError{FromMonth: "2024-03", Archived: 12, Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, faults.MapHTTPStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := faults.Validation("division", "division must be a known division")

	var verr *faults.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "division", verr.Field)
	assert.Equal(t, "division must be a known division", err.Error())
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := faults.Storage("list evaluations", cause)

	assert.ErrorIs(t, err, faults.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list evaluations: connection refused", err.Error())
	assert.Nil(t, faults.Storage("noop", nil))
}

func TestConsistencyError(t *testing.T) {
	cause := errors.New("delete timed out")
	err := &faults.ConsistencyError{FromMonth: "2024-03", Archived: 12, Err: cause}

	assert.ErrorIs(t, err, faults.ErrConsistency)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, faults.ErrStorage)
	assert.Contains(t, err.Error(), "archived 12 evaluations from 2024-03")
}
