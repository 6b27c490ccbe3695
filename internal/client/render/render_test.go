package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Markdown(t *testing.T) {
	r, err := New(WithStyle("notty"))
	require.NoError(t, err)

	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "paragraph", html: "<p>Hello <strong>world</strong></p>", want: "Hello **world**"},
		{name: "heading", html: "<h1>Title</h1>", want: "# Title"},
		{name: "link", html: `<p><a href="https://example.com">site</a></p>`, want: "[site](https://example.com)"},
		{name: "empty", html: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mdErr := r.Markdown(tt.html)
			require.NoError(t, mdErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_Terminal(t *testing.T) {
	r, err := New(WithStyle("notty"), WithWordWrap(40))
	require.NoError(t, err)

	out, err := r.Terminal("<ul><li>first</li><li>second</li></ul>")
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "<li>")
}
