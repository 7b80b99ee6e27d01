// Package speech implements the speech capability: reading a caption aloud in
// a fixed locale (en-US by default).
//
// Speak is fire-and-forget. It returns once the speech tool has started and
// never cancels an utterance that is still playing; a second call simply
// starts another process. Blank text is a silent no-op.
package speech
