package pkg

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"
)

// Quantile collects durations and reports their tail percentiles.
type Quantile struct {
	mu sync.Mutex
	f  []time.Duration
}

func NewQuantile(size int) *Quantile {
	return &Quantile{f: make([]time.Duration, 0, size)}
}

func (q *Quantile) Add(v time.Duration) {
	q.mu.Lock()
	q.f = append(q.f, v)
	q.mu.Unlock()
}

// quantile expects q.f to be sorted.
func (q *Quantile) quantile(p float64) time.Duration {
	return q.f[int(float64(len(q.f)-1)*p)]
}

func (q *Quantile) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.f)
}

// Report writes the 50th, 90th, 99th, 99.9th percentiles and the max to w.
func (q *Quantile) Report(w io.Writer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.f) == 0 {
		fmt.Fprintln(w, "no samples")
		return
	}
	slices.Sort(q.f)
	fmt.Fprintf(w, "50th: %v\n", q.quantile(0.5))
	fmt.Fprintf(w, "90th: %v\n", q.quantile(0.9))
	fmt.Fprintf(w, "99th: %v\n", q.quantile(0.99))
	fmt.Fprintf(w, "999th: %v\n", q.quantile(0.999))
	fmt.Fprintf(w, "max: %v\n", q.f[len(q.f)-1])
}
