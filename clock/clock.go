// Package clock provides aligned periodic scheduling.
// Ticks are even multiples of the requested period and are delivered as
// shortly as possible after the clock reaches these timestamps, so tasks with
// the same period fire in lockstep and a task's first fire lands within one
// period of it being armed.
package clock

import "time"

// AlignedTick returns an aligned ticker that may drop ticks
// (if the consumer is slow or the clock jumps forward).
func AlignedTick(period time.Duration) <-chan time.Time {
	c := make(chan time.Time)
	go func() {
		for {
			now := time.Now()
			nowUnix := now.UnixNano()
			diff := period - (time.Duration(nowUnix) % period)
			ideal := now.Add(diff)
			time.Sleep(diff)
			select {
			case c <- ideal:
			default:
			}
		}
	}()
	return c
}
