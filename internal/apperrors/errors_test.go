package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfigInvalid, "bad probability_config.yaml")
	assert.Equal(t, "bad probability_config.yaml: configuration invalid", err.Error())
	assert.True(t, errors.Is(err, ErrConfigInvalid))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrModelUnknown, "typology %q is not registered", "spoofing")
	assert.Equal(t, `typology "spoofing" is not registered: model unknown or failed to construct`, err.Error())
	assert.True(t, errors.Is(err, ErrModelUnknown))
}

func TestWrap(t *testing.T) {
	cause := errors.New("sql.ErrNoRows")
	wrapped := Wrap(cause, ErrNotFound, "loading template")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "loading template")
}

func TestWrapf(t *testing.T) {
	cause := errors.New("elimination produced NaN")
	wrapped := Wrapf(cause, ErrInferenceInstability, "failed to eliminate node %s at factor %d", "outcome", 3)

	assert.Equal(t, "failed to eliminate node outcome at factor 3: inference numerically unstable: elimination produced NaN", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrInferenceInstability))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestChain(t *testing.T) {
	assert.Nil(t, Chain())
	assert.Nil(t, Chain(nil, nil))

	single := errors.New("single error")
	assert.True(t, errors.Is(Chain(single), single))

	e1 := errors.New("first error")
	e2 := errors.New("second error")
	e3 := errors.New("third error")
	chained := Chain(e1, nil, e2, e3)
	assert.True(t, errors.Is(chained, e1))
	assert.True(t, errors.Is(chained, e2))
	assert.True(t, errors.Is(chained, e3))
	assert.Contains(t, chained.Error(), "first error")
	assert.Contains(t, chained.Error(), "second error")
	assert.Contains(t, chained.Error(), "third error")
}
