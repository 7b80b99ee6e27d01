// Package session models the capture, upload and speak flow as an explicit
// state machine.
//
// # States
//
//	Idle ──capture──▶ PhotoReady ──submit──▶ Submitting ──ok──▶ Result
//	                      ▲                       │
//	                      │                       └──error──▶ Failed
//	                      └────────capture (from any state but Submitting)
//
// A single Status field replaces the loading/caption/error booleans of a
// typical screen implementation, so combinations such as "loading with an
// error shown" cannot be constructed. Starting a submission or capturing a
// new photo always clears the previous caption and error.
//
// ToggleFacing is legal in every state and never touches the photo, caption
// or error.
//
// # Concurrency
//
// Session itself is not synchronized: the TUI mutates it only from the
// Bubble Tea event loop. Store wraps a Session behind a RWMutex for the
// headless runner and tests that read state from another goroutine.
package session
