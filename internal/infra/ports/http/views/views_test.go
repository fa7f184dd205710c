package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLoginEscapes(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Login, LoginData{CSRFToken: "tok", ErrorMessage: "<b>bad</b>"}, nil))

	assert.Contains(t, buf.String(), `value="tok"`)
	assert.Contains(t, buf.String(), "&lt;b&gt;bad&lt;/b&gt;")
}

func TestRenderRoomEmbedsCodeAsJSString(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Room, RoomData{RoomCode: "ABCDEFGH", HubPath: "/diagramhub"}, nil))

	assert.Contains(t, buf.String(), `const roomCode = "ABCDEFGH";`)
	assert.Contains(t, buf.String(), "diagramhub")
}
