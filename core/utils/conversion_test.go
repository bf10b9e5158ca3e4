package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int", 5, 5},
		{"Int64", int64(7), 7},
		{"Float", 3.9, 3},
		{"String", "42", 42},
		{"FloatString", "12.0", 12},
		{"Bytes", []byte("9"), 9},
		{"BoolTrue", true, 1},
		{"Garbage", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("false"))
	assert.False(t, ToBool(0))
	assert.False(t, ToBool(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "10", ToString(10))
	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "x", ToString([]byte("x")))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 2.5, ToFloat("2.5"))
	assert.Equal(t, 3.0, ToFloat(3))
	assert.Equal(t, 0.0, ToFloat("n/a"))
}
