package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []string{}, ParseIDList(""))
	assert.Equal(t, []string{}, ParseIDList("[]"))
	assert.Equal(t, []string{"a", "b"}, ParseIDList("a, b,,a"))
	assert.Equal(t, []string{"a", "b"}, ParseIDList(`["a","b"]`))
	assert.Equal(t, []string{"a", "b"}, ParseIDList(`[a, "b"`))
}
