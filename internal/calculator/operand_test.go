package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperand(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{"2", int64(2)},
		{"-17", int64(-17)},
		{"3.5", 3.5},
		{"-0.25", -0.25},
		{"1e3", 1000.0},
		{" 7 ", int64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "2x", "0x10"} {
		_, err := ParseOperand(bad)
		assert.ErrorIs(t, err, ErrInvalidOperand, bad)
	}
}

func TestParseOperands(t *testing.T) {
	got, err := ParseOperands([]string{"1", "2.5"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), 2.5}, got)

	_, err = ParseOperands([]string{"1", "nope"})
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(1))
	assert.True(t, IsNumeric(uint8(1)))
	assert.True(t, IsNumeric(float32(1.5)))
	assert.False(t, IsNumeric(true))
	assert.False(t, IsNumeric("1"))
	assert.False(t, IsNumeric(nil))
}

func TestResultString(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Result{Value: 4, Integer: true}, "4"},
		{Result{Value: -4, Integer: true}, "-4"},
		{Result{Value: 3}, "3.0"},
		{Result{Value: 0}, "0.0"},
		{Result{Value: 0.1}, "0.1"},
		{Result{Value: 1e16}, "1e+16"},
		{Result{Value: 1e-5}, "1e-05"},
		{Result{Value: 123456.789}, "123456.789"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.result.String())
	}
}

func TestLookup(t *testing.T) {
	op, err := Lookup("Subtract")
	require.NoError(t, err)
	assert.Equal(t, OpSubtract, op.Name)

	op, err = Lookup("substract")
	require.NoError(t, err)
	assert.Equal(t, OpSubtract, op.Name)

	op, err = Lookup("multiply")
	require.NoError(t, err)
	assert.True(t, op.Restricted)

	_, err = Lookup("cbrt")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	assert.Len(t, Operations(), 7)
}

func TestResultNumber(t *testing.T) {
	assert.Equal(t, int64(4), Result{Value: 4, Integer: true}.Number())
	assert.Equal(t, 3.0, Result{Value: 3}.Number())
	assert.Nil(t, Result{Value: math.Inf(1)}.Number())
	assert.Nil(t, Result{Value: math.NaN()}.Number())
}
