package roomcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator()

	for i := 0; i < 100; i++ {
		code := g.Generate()
		assert.Len(t, code, Length)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected character %q in code %s", r, code)
		}
	}
}
