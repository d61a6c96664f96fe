package sliceutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	got := Map([]int{3, 1, 2}, strconv.Itoa)
	assert.Equal(t, []string{"3", "1", "2"}, got)
}

func TestMapEmpty(t *testing.T) {
	got := Map(nil, func(x int) int { return x })
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
