package metrics

import (
	"go.mongodb.org/mongo-driver/v2/event"
)

// NewPoolMonitor returns a driver pool monitor that keeps the
// MongoConnections gauges current. Attach it to the client options at
// connect time.
func NewPoolMonitor() *event.PoolMonitor {
	open := MongoConnections.WithLabelValues("open")
	inUse := MongoConnections.WithLabelValues("in_use")

	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				open.Inc()
			case event.ConnectionClosed:
				open.Dec()
			case event.ConnectionCheckedOut:
				inUse.Inc()
			case event.ConnectionCheckedIn:
				inUse.Dec()
			}
		},
	}
}
