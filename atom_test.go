package atom

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestAtom(t *testing.T) {
	assert := assert.New(t)

	a1 := New("single instance")
	a2 := New("single instance")
	assert.True(a1.Equal(a2))
	assert.Equal(a1, a2)
	assert.Equal(a1.ID(), a2.ID())

	a, b := New("a"), New("b")
	assert.False(a.Equal(b))
	assert.Equal("a", a.String())
	assert.Equal("b", b.String())
}

func TestZeroAtom(t *testing.T) {
	assert := assert.New(t)

	var zero Atom
	assert.Equal(zero, New(""))
	assert.Equal(zero, NewBytes(nil))
	assert.Equal("", zero.String())
	assert.Equal(0, zero.Len())

	a, ok := Lookup("")
	assert.True(ok)
	assert.Equal(zero, a)
}

func TestContentFidelity(t *testing.T) {
	assert := assert.New(t)

	texts := []string{
		"",
		"x",
		"hello world",
		"\x00a\x00",
		"\xff\xfe\xfd",
		"日本語",
		strings.Repeat("ab", 100),
		strings.Repeat("z", 100*KB),
	}
	for _, text := range texts {
		a := New(text)
		assert.Equal(text, a.String())
		assert.Equal(len(text), a.Len())
		assert.Equal([]byte(text), a.Bytes())
		assert.Equal(a, NewBytes([]byte(text)))
	}
}

func TestDistinct(t *testing.T) {
	assert := assert.New(t)

	// same length, same ends.
	head := strings.Repeat("h", 64)
	tail := strings.Repeat("t", 64)
	texts := []string{
		"distinct", "Distinct", "distinct ", " distinct",
		head + "1" + tail, head + "2" + tail,
	}
	atoms := NewSlice(texts)
	for i := range atoms {
		for j := range atoms {
			assert.Equal(i == j, atoms[i].Equal(atoms[j]), "%q %q", texts[i], texts[j])
		}
		assert.Equal(texts[i], atoms[i].String())
	}
}

func TestHash(t *testing.T) {
	assert := assert.New(t)

	a1, a2 := New("hash me"), New("hash me")
	assert.Equal(a1.Hash(), a2.Hash())
	assert.Equal(a1.ContentHash(), a2.ContentHash())
	assert.NotEqual(a1.Hash(), New("hash you").Hash())

	hashes := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		hashes[New(fmt.Sprintf("hash-%d", i)).Hash()] = true
	}
	assert.Len(hashes, 1000)

	// only the ends of long texts are content hashed.
	head, tail := strings.Repeat("h", 64), strings.Repeat("t", 64)
	l1, l2 := New(head+"left"+tail), New(head+"rite"+tail)
	assert.NotEqual(l1, l2)
	assert.Equal(l1.ContentHash(), l2.ContentHash())
	assert.NotEqual(l1.Hash(), l2.Hash())
	assert.NotEqual(New("short-left").ContentHash(), New("short-rite").ContentHash())
}

func TestNewBytes(t *testing.T) {
	assert := assert.New(t)

	b := []byte("mutable bytes")
	a := NewBytes(b)
	b[0] = 'M'
	assert.Equal("mutable bytes", a.String())
	assert.Equal(a, New("mutable bytes"))
	assert.NotEqual(a, NewBytes(b))
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	n := Len()
	_, ok := Lookup("never interned before")
	assert.False(ok)
	_, ok = LookupBytes([]byte("never interned before"))
	assert.False(ok)
	assert.Equal(n, Len())

	a := New("never interned before")
	assert.Equal(n+1, Len())

	b, ok := Lookup("never interned before")
	assert.True(ok)
	assert.Equal(a, b)
	b, ok = LookupBytes([]byte("never interned before"))
	assert.True(ok)
	assert.Equal(a, b)
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)

	// interned in reverse so ids disagree with text order.
	words := []string{"pear", "orange", "banana", "apple"}
	atoms := NewSlice(words)
	slices.SortFunc(atoms, Atom.Compare)

	var sorted []string
	for _, a := range atoms {
		sorted = append(sorted, a.String())
	}
	assert.Equal([]string{"apple", "banana", "orange", "pear"}, sorted)

	assert.Equal(0, New("pear").Compare(New("pear")))
	assert.Equal(-1, New("apple").CompareString("banana"))
	assert.Equal(1, New("pear").CompareString("orange"))
	assert.True(New("pear").EqualString("pear"))
	assert.False(New("pear").EqualString("pears"))
}

func TestSlice(t *testing.T) {
	assert := assert.New(t)

	a := New("0123456789")
	assert.Equal("123", a.Slice(1, 4))
	assert.Equal("prefix-0123456789", string(a.AppendTo([]byte("prefix-"))))
	assert.Equal(`"0123456789"`, fmt.Sprintf("%#v", a))
	assert.Equal("0123456789", fmt.Sprint(a))
}

func TestText(t *testing.T) {
	assert := assert.New(t)

	type labels struct {
		Name   Atom         `json:"name"`
		Values map[Atom]int `json:"values"`
	}
	in := labels{
		Name:   New("http_requests_total"),
		Values: map[Atom]int{New("GET"): 1, New("POST"): 2},
	}
	b, err := json.Marshal(in)
	assert.Nil(err)
	assert.Equal(`{"name":"http_requests_total","values":{"GET":1,"POST":2}}`, string(b))

	var out labels
	assert.Nil(json.Unmarshal(b, &out))
	assert.Equal(in, out)
}

func TestInit(t *testing.T) {
	assert := assert.New(t)

	New("init")
	assert.ErrorIs(Init(DefaultOptions), ErrInitialized)
	assert.ErrorIs(Init(Options{ShardCount: 3, PageSize: KB}), errInvalidShardCount)
	assert.Equal(int(DefaultOptions.ShardCount), GetStats().Shards)
}

func TestStats(t *testing.T) {
	assert := assert.New(t)

	before := GetStats()
	New("stats-new")
	New("stats-new")
	after := GetStats()

	assert.Equal(before.Atoms+1, after.Atoms)
	assert.Equal(before.Misses+1, after.Misses)
	assert.Equal(before.Hits+1, after.Hits)
	assert.Equal(before.Bytes+uint64(len("stats-new")), after.Bytes)
	assert.Contains(after.String(), "atoms: ")
	assert.Greater(after.HitRate(), 0.0)
}

// All goroutines race to intern the same unseen text.
func TestConcurrentConvergence(t *testing.T) {
	assert := assert.New(t)

	const workers = 64
	for round := 0; round < 20; round++ {
		text := fmt.Sprintf("converge-%d", round)
		n := Len()

		var g errgroup.Group
		start := make(chan struct{})
		atoms := make([]Atom, workers)
		for i := 0; i < workers; i++ {
			g.Go(func() error {
				<-start
				atoms[i] = New(text)
				return nil
			})
		}
		close(start)
		assert.Nil(g.Wait())

		assert.Equal(n+1, Len())
		for _, a := range atoms {
			assert.Equal(atoms[0], a)
		}
		assert.Equal(text, atoms[0].String())
	}
}

func TestConcurrentLoad(t *testing.T) {
	assert := assert.New(t)

	const (
		workers  = 16
		calls    = 10000
		distinct = 100
	)
	n := Len()
	seen := mapset.NewSet[Atom]()

	var wg conc.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			for i := 0; i < calls; i++ {
				text := fmt.Sprintf("load-%03d", (i*7+w)%distinct)
				a := New(text)
				if i%97 == 0 {
					seen.Add(a)
				}
				if a.String() != text {
					panic(fmt.Sprintf("atom %q for %q", a.String(), text))
				}
			}
		})
	}
	wg.Wait()

	assert.Equal(n+distinct, Len())
	for i := 0; i < distinct; i++ {
		seen.Add(New(fmt.Sprintf("load-%03d", i)))
	}
	assert.Equal(distinct, seen.Cardinality())
	assert.Equal(n+distinct, Len())
}

func TestRepeatedIntern(t *testing.T) {
	assert := assert.New(t)

	n := Len()
	for i := 0; i < 10000; i++ {
		New(fmt.Sprintf("repeat-%d", i%100))
	}
	assert.Equal(n+100, Len())
}

func TestConcurrentLookup(t *testing.T) {
	assert := assert.New(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				text := fmt.Sprintf("lookup-%d", i)
				if w%2 == 0 {
					New(text)
				} else if a, ok := Lookup(text); ok && a.String() != text {
					panic(text)
				}
			}
		}(w)
	}
	wg.Wait()

	for i := 0; i < 1000; i++ {
		_, ok := Lookup(fmt.Sprintf("lookup-%d", i))
		assert.True(ok)
	}
}
