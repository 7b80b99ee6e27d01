package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestStore_UpdateSuccess(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(15*time.Millisecond, nil)

	snap := s.Snapshot()
	if !snap.Checked || snap.Latency != 15*time.Millisecond {
		t.Fatalf("snapshot = %#v, want checked with 15ms latency", snap)
	}
	if snap.LastChecked.Before(before) || snap.LastOK.Before(before) {
		t.Fatalf("timestamps not updated: %#v", snap)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if snap.Label() != "online" {
		t.Fatalf("Label() = %q, want online", snap.Label())
	}
}

func TestStore_UpdateErrorKeepsPreviousSuccess(t *testing.T) {
	var s Store

	s.Update(10*time.Millisecond, nil)
	prev := s.Snapshot()

	origErr := errors.New("connection refused")
	s.Update(0, origErr)

	snap := s.Snapshot()
	if snap.LastOK != prev.LastOK || snap.Latency != prev.Latency {
		t.Fatalf("success data changed on error: got %#v want %#v", snap, prev)
	}
	if snap.LastError == nil || snap.LastError.Error() != "connection refused" {
		t.Fatalf("LastError = %v, want connection refused", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.Label() != "unstable" {
		t.Fatalf("Label() = %q, want unstable after one failure", snap.Label())
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store = %#v, want no failures", snap)
	}
	if snap.Label() != "checking" {
		t.Fatalf("Label() = %q, want checking before first probe", snap.Label())
	}

	s.Update(0, errors.New("fail 1"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after one failure = %#v, want 1 failure and online", snap)
	}

	s.Update(0, errors.New("fail 2"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after two failures = %#v, want offline", snap)
	}
	if snap.Label() != "offline" {
		t.Fatalf("Label() = %q, want offline", snap.Label())
	}

	s.Update(time.Millisecond, nil)
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %#v, want reset", snap)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Update(time.Millisecond, nil)
			} else {
				s.Update(0, errors.New("down"))
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Snapshot().Label()
		}()
	}
	wg.Wait()
	if !s.Snapshot().Checked {
		t.Fatalf("Checked = false after updates")
	}
}
