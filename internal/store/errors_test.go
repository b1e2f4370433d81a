package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is_DerivedMatchesSentinel(t *testing.T) {
	withMsg := ErrInvalidInput.WithMessage("paper requires an OpenAlex ID and a title")
	assert.True(t, errors.Is(withMsg, ErrInvalidInput))

	withCause := ErrInvalidInput.WithCause(fmt.Errorf("missing paper reference"))
	assert.True(t, errors.Is(withCause, ErrInvalidInput))
}

func TestError_Is_NamedSentinels(t *testing.T) {
	// Named sentinels match themselves and the base they derive from.
	assert.True(t, errors.Is(ErrEntryNotFound, ErrEntryNotFound))
	assert.True(t, errors.Is(ErrEntryNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrSelfFollow, ErrInvalidInput))
	assert.True(t, errors.Is(ErrUsernameTaken, ErrAlreadyExists))

	// A chained derivation keeps the whole lineage.
	chained := ErrEntryNotFound.WithCause(fmt.Errorf("row missing"))
	assert.True(t, errors.Is(chained, ErrEntryNotFound))
	assert.True(t, errors.Is(chained, ErrNotFound))
}

func TestError_Is_SiblingsDoNotMatch(t *testing.T) {
	assert.False(t, errors.Is(ErrPaperNotFound, ErrEntryNotFound))
	assert.False(t, errors.Is(ErrSelfFollow, ErrNotFound))
	assert.False(t, errors.Is(ErrInvalidInput.WithMessage("bad"), ErrNotFound))
}

func TestError_MessageAndCode(t *testing.T) {
	err := ErrInvalidInput.WithMessage("status must be one of to_read, reading, read")
	assert.Equal(t, 400, err.HTTPCode())
	assert.Equal(t, "status must be one of to_read, reading, read", err.Error())

	wrapped := ErrNotFound.WithCause(fmt.Errorf("no rows"))
	assert.Equal(t, "resource not found: no rows", wrapped.Error())
	assert.Equal(t, "no rows", errors.Unwrap(wrapped).Error())
}
