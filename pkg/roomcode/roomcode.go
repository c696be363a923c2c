// Package roomcode generates short shareable room codes. A code is six
// uppercase base36 characters: the last two digits of the current
// unix-millisecond timestamp in base36 followed by four random characters,
// so codes generated in the same process rarely collide even before the
// registry-level uniqueness check.
package roomcode

import (
	"strconv"
	"strings"
	"time"

	"github.com/watchtogether/server/pkg/randstr"
)

const Length = 6

var base36Letters = []byte("abcdefghijklmnopqrstuvwxyz0123456789")

type Generator struct {
	rand *randstr.Generator
}

func NewGenerator() *Generator {
	return &Generator{rand: randstr.New(base36Letters)}
}

func (g *Generator) Generate() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if len(ts) > 2 {
		ts = ts[len(ts)-2:]
	}

	code := strings.ToUpper(ts + g.rand.GenerateRandomString(Length-len(ts)))
	if len(code) > Length {
		code = code[:Length]
	}

	return code
}
