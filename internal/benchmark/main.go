package main

import (
	"flag"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
	"unique"

	"github.com/dustin/go-humanize"
	"github.com/xgzlucario/atom"
)

var previousPause time.Duration

func gcPause() time.Duration {
	runtime.GC()
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	pause := stats.PauseTotal - previousPause
	previousPause = stats.PauseTotal
	return pause
}

func genK(id int) []byte {
	return fmt.Appendf(nil, "key-%010d", id)
}

// Interns n distinct keys, each requested `repeat` times, and keeps every
// handle alive so the heap reflects what a caller would hold.
func main() {
	c := ""
	n := 0
	repeat := 0
	flag.StringVar(&c, "obj", "atom", "atom, unique, syncmap or stdmap")
	flag.IntVar(&n, "n", 1000000, "distinct keys")
	flag.IntVar(&repeat, "repeat", 4, "requests per key")
	flag.Parse()
	fmt.Println(c, n, repeat)

	start := time.Now()
	var held any

	switch c {
	case "atom":
		atoms := make([]atom.Atom, 0, n*repeat)
		for r := 0; r < repeat; r++ {
			for i := 0; i < n; i++ {
				atoms = append(atoms, atom.NewBytes(genK(i)))
			}
		}
		held = atoms
	case "unique":
		handles := make([]unique.Handle[string], 0, n*repeat)
		for r := 0; r < repeat; r++ {
			for i := 0; i < n; i++ {
				handles = append(handles, unique.Make(string(genK(i))))
			}
		}
		held = handles
	case "syncmap":
		var m sync.Map
		strs := make([]string, 0, n*repeat)
		for r := 0; r < repeat; r++ {
			for i := 0; i < n; i++ {
				k := string(genK(i))
				v, _ := m.LoadOrStore(k, k)
				strs = append(strs, v.(string))
			}
		}
		held = strs
	case "stdmap":
		m := make(map[string]string)
		strs := make([]string, 0, n*repeat)
		for r := 0; r < repeat; r++ {
			for i := 0; i < n; i++ {
				k := genK(i)
				v, ok := m[string(k)]
				if !ok {
					v = string(k)
					m[v] = v
				}
				strs = append(strs, v)
			}
		}
		held = strs
	default:
		panic("unknown flags")
	}

	cost := time.Since(start)
	var mem runtime.MemStats
	var stat debug.GCStats

	runtime.ReadMemStats(&mem)
	debug.ReadGCStats(&stat)

	fmt.Println("heap inuse:", humanize.IBytes(mem.HeapInuse))
	fmt.Println("heap object:", humanize.Comma(int64(mem.HeapObjects)))
	fmt.Println("gc:", stat.NumGC)
	fmt.Println("pause:", gcPause())
	fmt.Println("cost:", cost)
	if c == "atom" {
		fmt.Println(atom.GetStats())
	}
	runtime.KeepAlive(held)
}
