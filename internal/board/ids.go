package board

import (
	"strconv"
	"time"
)

// IDSource issues ids of the form "<status>-<epochMillis>". An id that was
// already handed out gets a "-<n>" suffix, so two issues created in the same
// millisecond under the same status stay distinct.
type IDSource struct {
	now    func() time.Time
	issued map[string]int
}

// NewIDSource returns a source that stamps ids with now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now, issued: map[string]int{}}
}

// Next returns a fresh id for an issue created in status. A millisecond
// already issued gets a numeric suffix.
func (s *IDSource) Next(status Column) string {
	base := string(status) + "-" + strconv.FormatInt(s.now().UnixMilli(), 10)
	n, seen := s.issued[base]
	s.issued[base] = n + 1
	if !seen {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
