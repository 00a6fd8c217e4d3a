package clock

import (
	"testing"
	"time"
)

func TestAlignedTick(t *testing.T) {
	period := 100 * time.Millisecond
	lateToleration := 30 * time.Millisecond

	// whatever time it is now, we expect the tick pointing to the next aligned
	// timestamp, and we expect to see it shortly after that timestamp
	tick := AlignedTick(period)
	now := time.Now()
	expTick := time.Unix(0, (1+now.UnixNano()/int64(period))*int64(period))
	expWithin := expTick.Sub(now)
	select {
	case v := <-tick:
		if !v.Equal(expTick) {
			t.Fatalf("expected tick %v, got %v", expTick, v)
		}
		elapsed := time.Since(now)
		if elapsed < expWithin || elapsed > expWithin+lateToleration {
			t.Fatalf("expected to see the tick after %v to %v, but it took %v", expWithin, expWithin+lateToleration, elapsed)
		}
	case <-time.After(period + lateToleration):
		t.Fatalf("did not get the tick on time")
	}
}
