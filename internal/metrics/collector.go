// Package metrics counts live hub activity
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks hub activity with atomic counters. The zero value is
// not usable; call NewCollector.
type Collector struct {
	clientsConnected    atomic.Int64
	clientsDisconnected atomic.Int64
	activeClients       atomic.Int64
	maxClients          atomic.Int64

	updatesPushed  atomic.Int64
	updatesSkipped atomic.Int64
	updateErrors   atomic.Int64
	bytesSent      atomic.Int64

	eventsDispatched atomic.Int64
	eventErrors      atomic.Int64

	startTime time.Time
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	ClientsConnected     int64 `json:"clients_connected"`
	ClientsDisconnected  int64 `json:"clients_disconnected"`
	ActiveClients        int64 `json:"active_clients"`
	MaxConcurrentClients int64 `json:"max_concurrent_clients"`

	UpdatesPushed  int64 `json:"updates_pushed"`
	UpdatesSkipped int64 `json:"updates_skipped"`
	UpdateErrors   int64 `json:"update_errors"`
	BytesSent      int64 `json:"bytes_sent"`

	EventsDispatched int64 `json:"events_dispatched"`
	EventErrors      int64 `json:"event_errors"`

	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// ClientConnected records a new client
func (c *Collector) ClientConnected() {
	c.clientsConnected.Add(1)
	active := c.activeClients.Add(1)

	for {
		max := c.maxClients.Load()
		if active <= max || c.maxClients.CompareAndSwap(max, active) {
			break
		}
	}
}

// ClientDisconnected records a client leaving
func (c *Collector) ClientDisconnected() {
	c.clientsDisconnected.Add(1)
	c.activeClients.Add(-1)
}

// UpdatePushed records an update sent to clients as bytes of HTML each
func (c *Collector) UpdatePushed(clients, bytes int) {
	c.updatesPushed.Add(1)
	c.bytesSent.Add(int64(clients) * int64(bytes))
}

// UpdateSkipped records an update an interceptor did not let through
func (c *Collector) UpdateSkipped() {
	c.updatesSkipped.Add(1)
}

// UpdateFailed records a failed update
func (c *Collector) UpdateFailed() {
	c.updateErrors.Add(1)
}

// EventDispatched records an event delivered to a listener
func (c *Collector) EventDispatched() {
	c.eventsDispatched.Add(1)
}

// EventFailed records an event that found no listener
func (c *Collector) EventFailed() {
	c.eventErrors.Add(1)
}

// Snapshot returns the current counters
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ClientsConnected:     c.clientsConnected.Load(),
		ClientsDisconnected:  c.clientsDisconnected.Load(),
		ActiveClients:        c.activeClients.Load(),
		MaxConcurrentClients: c.maxClients.Load(),
		UpdatesPushed:        c.updatesPushed.Load(),
		UpdatesSkipped:       c.updatesSkipped.Load(),
		UpdateErrors:         c.updateErrors.Load(),
		BytesSent:            c.bytesSent.Load(),
		EventsDispatched:     c.eventsDispatched.Load(),
		EventErrors:          c.eventErrors.Load(),
		StartTime:            c.startTime,
		Uptime:               time.Since(c.startTime),
	}
}

// EventErrorRate returns the percentage of events that failed
func (c *Collector) EventErrorRate() float64 {
	ok := c.eventsDispatched.Load()
	failed := c.eventErrors.Load()
	if ok+failed == 0 {
		return 0.0
	}
	return float64(failed) / float64(ok+failed) * 100.0
}
