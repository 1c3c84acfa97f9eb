package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xgzlucario/atom/internal/pkg"
)

const MAX = 10000

func FuzzTestIntern(f *testing.F) {
	stdmap := make(map[string]uint32, MAX)
	tb := newTable(Options{ShardCount: 8, Capacity: MAX, PageSize: 4 * KB}, pkg.NewStore(0))
	stdmap[""] = 0

	f.Add(0, "hello")
	f.Add(3, "hello")
	f.Add(6, "")
	f.Add(0, "\x00\xff")

	f.Fuzz(func(t *testing.T, op int, text string) {
		ast := assert.New(t)
		switch op % 10 {
		case 0, 1, 2: // Intern
			if len(stdmap) > MAX {
				break
			}
			want, ok := stdmap[text]
			id := tb.intern(text)
			if ok {
				ast.Equal(want, id)
			} else {
				stdmap[text] = id
			}
			ast.Equal(text, tb.slot(id).Text)

		case 3, 4, 5: // Lookup
			want, ok1 := stdmap[text]
			id, ok2 := tb.lookup(text)
			ast.Equal(ok1, ok2)
			if ok1 {
				ast.Equal(want, id)
			}

		case 6, 7: // InternBytes
			if len(stdmap) > MAX {
				break
			}
			b := []byte(text)
			id := tb.intern(b2s(b))
			clear(b)
			if want, ok := stdmap[text]; ok {
				ast.Equal(want, id)
			} else {
				stdmap[text] = id
			}
			ast.Equal(text, tb.slot(id).Text)

		case 8, 9: // Len
			ast.Equal(len(stdmap), tb.slots.Len())
		}
	})
}
