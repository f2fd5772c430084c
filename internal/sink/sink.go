package sink

import (
	"context"
	"io"
	"time"
)

// Sink receives location updates. What it does with them (store, broadcast, drop) is its own business;
// callers only learn whether the call failed.
type Sink interface {
	UpdateLocation(ctx context.Context, coordinates string) error
}

// Pinger is implemented by sinks backed by a server that can be health-checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ Pinger    = (*PostgresSink)(nil)
	_ Pinger    = (*RedisSink)(nil)
	_ io.Closer = (*PostgresSink)(nil)
	_ io.Closer = (*RedisSink)(nil)
	_ io.Closer = (*KafkaSink)(nil)
	_ io.Closer = (*MQTTSink)(nil)
)

// clock returns the time stamped on outgoing updates.
type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
