package atom

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// HitRate returns the percentage of interning calls that found an existing atom.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (s Stats) String() string {
	return fmt.Sprintf("atoms: %s, text: %s, pages: %d (%s), large: %d, shards: %d, hits: %s, misses: %s, hit rate: %.2f%%",
		humanize.Comma(int64(s.Atoms)),
		humanize.IBytes(s.Bytes),
		s.Pages,
		humanize.IBytes(s.PageBytes),
		s.Large,
		s.Shards,
		humanize.Comma(int64(s.Hits)),
		humanize.Comma(int64(s.Misses)),
		s.HitRate(),
	)
}
