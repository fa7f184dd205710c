package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRoomCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "generated length", code: "ABCDEF23", want: true},
		{name: "max length", code: "ABCDEFGH23", want: true},
		{name: "single char", code: "Z", want: true},
		{name: "too long", code: "ABCDEFGH234", want: false},
		{name: "empty", code: "", want: false},
		{name: "lowercase", code: "abcdefgh", want: false},
		{name: "zero", code: "ABCDEF20", want: false},
		{name: "letter O", code: "ABCDEFGO", want: false},
		{name: "one", code: "ABCDEF21", want: false},
		{name: "letter I", code: "ABCDEFGI", want: false},
		{name: "space", code: "ABCD EFG", want: false},
		{name: "non ascii", code: "ABCDÉFG", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRoomCode(tt.code))
		})
	}
}

func TestExceedsMaxContentLength(t *testing.T) {
	assert.False(t, ExceedsMaxContentLength(""))
	assert.False(t, ExceedsMaxContentLength(strings.Repeat("a", MaxContentLength)))
	assert.True(t, ExceedsMaxContentLength(strings.Repeat("a", MaxContentLength+1)))
}

func TestExceedsMaxContentLengthCountsCharacters(t *testing.T) {
	// 1 000 000 символов, но 2 000 000 байт
	assert.False(t, ExceedsMaxContentLength(strings.Repeat("é", MaxContentLength)))
	assert.True(t, ExceedsMaxContentLength(strings.Repeat("é", MaxContentLength+1)))
}

func TestAdmit(t *testing.T) {
	assert.Equal(t, DropNone, AdmitJoin("ABCDEF23"))
	assert.Equal(t, DropInvalidRoomCode, AdmitJoin("abc"))

	assert.Equal(t, DropNone, AdmitUpdate("ABCDEF23", "# doc"))
	assert.Equal(t, DropInvalidRoomCode, AdmitUpdate("", "# doc"))
	assert.Equal(t, DropContentTooLong, AdmitUpdate("ABCDEF23", strings.Repeat("x", MaxContentLength+1)))

	assert.Equal(t, DropNone, AdmitReset("ABCDEF23"))
	assert.Equal(t, DropInvalidRoomCode, AdmitReset("ABCDEFGH234"))
}
