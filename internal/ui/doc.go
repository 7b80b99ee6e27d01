// Package ui is narrator's interactive screen, built on Bubble Tea.
//
// One Model drives the whole flow: rotate the camera, take a picture, submit
// it for a caption, hear the caption read aloud. Camera, captioning service
// and speaker are injected interfaces, so tests drive Model.Update with fakes.
//
// Every state change happens inside Update. Captures, uploads, permission
// probes and log reads run as tea.Cmds and report back with messages
// (photoMsg, captionMsg, captionErrMsg, permissionMsg, logsMsg), so the
// session.Session held by the model is never touched off the event loop.
//
// Until camera access is granted the screen shows "Waiting for permission..."
// behind a modal offering Grant (g) and Cancel (esc). Submit is disabled with
// no photo or while a request runs; the caption is spoken once when it
// arrives and again on p.
//
// Key bindings are listed in keys.go and in the help overlay (h or ?).
package ui
