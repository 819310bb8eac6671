package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{5, "5"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-999, "-999"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "прив", Truncate("привет", 4), "truncation counts runes, not bytes")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "one two three", Preview("one\n two\t three", 50))
	assert.Equal(t, "one tw...", Preview("one two three", 6))
	assert.Equal(t, "", Preview("", 10))

	long := strings.Repeat("a", 200)
	assert.Equal(t, strings.Repeat("a", 120)+"...", Preview(long, 120))
}
