// Package notify turns live events into operator-facing notifications:
// a toast per relevant event and, when the merchant has sounds enabled,
// a short synthesized tone.
//
// ARCHITECTURE: the Dispatcher is a pure policy layer. It decides WHAT to
// announce (which events toast, which sound plays, at what volume) and hands
// the result to injected sinks. Tone synthesis is pure PCM generation with
// no audio dependency; only the oto-backed Player touches a device.
//
// CRITICAL: notification failures never propagate. A sink error is logged
// and swallowed, because a broken speaker must not break order intake.
// Audio additionally requires an explicit Unlock before the first Play;
// Play before Unlock is a silent no-op with a warning.
package notify
