package workpool

import "sync/atomic"

func interruptAdd(counter *int32, delta int32) int32 {
	return atomic.AddInt32(counter, delta)
}

func interruptLoad(counter *int32) int32 {
	return atomic.LoadInt32(counter)
}
