package queue

import "time"

// delayGate emulates delayed delivery (§9) for drivers with no
// native schedule-ahead publish: Receive/ReceiveNoWait nack a message
// stamped with a future _SCHED_DELIVERY time and let the driver's
// normal redelivery policy bring it back for another check.
type delayGate struct{}

func newDelayGate() *delayGate {
	return &delayGate{}
}

// due reports whether unixMilli has already passed.
func (g *delayGate) due(unixMilli int64) bool {
	return time.Now().UnixMilli() >= unixMilli
}
