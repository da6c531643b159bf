package identifier

import (
	"sync/atomic"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

var lastMicros atomic.Int64

// NewRecordKey returns a fresh TID record key. The microsecond clock is
// forced strictly monotonic within the process, so concurrent creates
// never collide the way plain wall-clock keys would.
func NewRecordKey() string {
	for {
		now := time.Now().UnixMicro()
		last := lastMicros.Load()
		if now <= last {
			now = last + 1
		}
		if lastMicros.CompareAndSwap(last, now) {
			return syntax.NewTID(now, 0).String()
		}
	}
}
