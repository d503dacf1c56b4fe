package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Hello world", Text(`<b>Hello</b> world<script>alert(1)</script>`))
	assert.Equal(t, "Tom & Jerry", Text("  Tom & Jerry "))
	assert.Equal(t, "", Text(""))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, Strings([]string{"<i>Go</i>", "  ", "SQL"}))
	assert.Nil(t, Strings(nil))
}
