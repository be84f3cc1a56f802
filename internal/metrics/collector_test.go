package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()

	snap := collector.Snapshot()
	if snap.ActiveClients != 0 || snap.UpdatesPushed != 0 {
		t.Errorf("Expected zero counters, got %+v", snap)
	}
	if snap.StartTime.IsZero() {
		t.Error("StartTime not set")
	}
}

func TestClientMetrics(t *testing.T) {
	collector := NewCollector()

	collector.ClientConnected()
	collector.ClientConnected()
	collector.ClientConnected()
	collector.ClientDisconnected()

	snap := collector.Snapshot()
	if snap.ClientsConnected != 3 {
		t.Errorf("Expected 3 clients connected, got %d", snap.ClientsConnected)
	}
	if snap.ActiveClients != 2 {
		t.Errorf("Expected 2 active clients, got %d", snap.ActiveClients)
	}
	if snap.MaxConcurrentClients != 3 {
		t.Errorf("Expected max concurrent clients 3, got %d", snap.MaxConcurrentClients)
	}
	if snap.ClientsDisconnected != 1 {
		t.Errorf("Expected 1 client disconnected, got %d", snap.ClientsDisconnected)
	}
}

func TestUpdateAndEventMetrics(t *testing.T) {
	collector := NewCollector()

	collector.UpdatePushed(2, 100)
	collector.UpdatePushed(0, 100)
	collector.UpdateSkipped()
	collector.UpdateFailed()

	snap := collector.Snapshot()
	if snap.UpdatesPushed != 2 {
		t.Errorf("Expected 2 updates pushed, got %d", snap.UpdatesPushed)
	}
	if snap.BytesSent != 200 {
		t.Errorf("Expected 200 bytes sent, got %d", snap.BytesSent)
	}
	if snap.UpdatesSkipped != 1 || snap.UpdateErrors != 1 {
		t.Errorf("Expected 1 skipped and 1 failed update, got %+v", snap)
	}

	if rate := collector.EventErrorRate(); rate != 0.0 {
		t.Errorf("Expected 0%% error rate with no events, got %f", rate)
	}
	collector.EventDispatched()
	collector.EventDispatched()
	collector.EventDispatched()
	collector.EventFailed()
	if rate := collector.EventErrorRate(); rate != 25.0 {
		t.Errorf("Expected 25%% error rate, got %f", rate)
	}
}

func TestConcurrentClients(t *testing.T) {
	collector := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.ClientConnected()
			collector.EventDispatched()
		}()
	}
	wg.Wait()

	snap := collector.Snapshot()
	if snap.ActiveClients != 50 || snap.MaxConcurrentClients != 50 {
		t.Errorf("Expected 50 active and max clients, got %+v", snap)
	}
	if snap.EventsDispatched != 50 {
		t.Errorf("Expected 50 events, got %d", snap.EventsDispatched)
	}
}

func TestSnapshotJSON(t *testing.T) {
	collector := NewCollector()
	collector.ClientConnected()
	time.Sleep(time.Millisecond)

	snap := collector.Snapshot()
	if snap.Uptime <= 0 {
		t.Errorf("Expected positive uptime, got %v", snap.Uptime)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	for _, key := range []string{`"active_clients":1`, `"updates_pushed":0`, `"uptime":`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}
