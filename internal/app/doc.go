// Package app is the composition root for narrator.
//
// # Overview
//
// Run and Once load configuration, build the camera, captioning client,
// speaker and logger, then hand them to a flow:
//
//   - Run starts the health poller and the interactive screen (package ui)
//     and blocks until the user quits or the context is cancelled.
//   - Once captures a single photo (or reads ImagePath), submits it, prints
//     the caption and speaks it, without a screen.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml and NARRATOR_* env
//	       ├─────> logging.New()        JSON log file
//	       ├─────> caption.NewClient()  POST /process-image, GET /healthcheck
//	       ├─────> camera.New()         Platform capture command
//	       ├─────> speech.New()         Platform text-to-speech
//	       ├─────> StartPoller()        Service health in the background
//	       └─────> ui.Run()             Bubble Tea program (blocks)
//
// # Health Polling
//
// The poller pings the captioning service once at startup and then every
// interval, doubling the wait after each consecutive failure up to
// maxBackoff. Results land in a state.Store that the screen reads on its
// own tick. The indicator is informational; submitting is never blocked
// on it.
//
// # Error Handling
//
// Setup errors (bad config, unknown facing, log file not writable) are
// returned from Run and Once. Flow failures in Once come back as a
// FailureError whose Error text is the message a user would see on
// screen; the underlying cause is logged and reachable with errors.As.
package app
