// Package state holds the captioning service's health as seen by the
// background prober.
//
// The prober goroutine writes with Store.Update after every health check;
// the UI reads with Store.Snapshot on its own tick. A sync.RWMutex guards the
// snapshot, and Snapshot returns a copy whose error is re-wrapped so the
// caller never shares the stored value.
//
// A failed probe keeps the last success time and latency and bumps
// ConsecutiveFailures. Two failures in a row mark the service offline; one
// success resets the count.
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
//	store.Update(latency, err)
//	snap := store.Snapshot()
//	fmt.Println(snap.Label()) // checking, online, unstable or offline
//
// Health is informational only. Submitting a photo never waits on it, and
// a failed upload is reported on its own.
package state
