package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceErrorMatchesReasonAndCause(t *testing.T) {
	err := &SourceError{
		Kind:   "posts",
		Path:   "data/posts.json",
		Reason: ErrSourceUnavailable,
		Err:    fs.ErrNotExist,
	}

	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.False(t, errors.Is(err, ErrSourceMalformed))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "unavailable", err.ReasonLabel())
	assert.Contains(t, err.Error(), "data/posts.json")
}

func TestValidationError(t *testing.T) {
	var ve ValidationError
	assert.False(t, ve.HasAny())

	ve.Add("server.addr", "must not be empty")
	assert.True(t, ve.HasAny())
	assert.True(t, errors.Is(ve, ErrInvalid))
	assert.Contains(t, ve.Error(), "server.addr: must not be empty")
}
