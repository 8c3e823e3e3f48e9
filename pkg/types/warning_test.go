package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarning(t *testing.T) {
	w := &Warning{Path: "/tmp/photo.jpg", Err: ErrUnpersistedWrite}

	assert.True(t, IsWarning(w))
	assert.True(t, IsWarning(fmt.Errorf("close: %w", w)))
	assert.ErrorIs(t, w, ErrUnpersistedWrite)
	assert.Contains(t, w.Error(), "/tmp/photo.jpg")

	assert.False(t, IsWarning(errors.New("boom")))
	assert.False(t, IsWarning(nil))
}
