// Package camera holds the preview session controller: one optional live
// video stream bound to a user-visible surface.
//
// The controller enforces the scoped-resource contract for streams. Every
// acquisition is released on every exit path, including attach and playback
// failures, so teardown always ends with zero live tracks.
package camera
