package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pq.Error{Code: pgSerializationFailure}))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("plain error")))
}

func TestIsSerializationFailureWrappedCommit(t *testing.T) {
	// Код драйвера остаётся видимым через обёртку ErrTxCommit
	err := fmt.Errorf("%w: %w", ErrTxCommit, &pq.Error{Code: pgSerializationFailure})
	assert.True(t, isSerializationFailure(err))
}
