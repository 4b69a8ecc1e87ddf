package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "ok") })
	assert.Panics(t, func() { AssertInvariant(false, "boom") })
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "hel", Truncate("hello", 3))
}
