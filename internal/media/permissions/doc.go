// Package permissions implements camera and microphone permission
// negotiation as a small state machine over pluggable providers.
//
// The machine moves unknown -> checking -> granted or denied; a denial is
// only left through an explicit user retry. Platform differences live in the
// provider variants (web, hybrid iOS, hybrid Android), selected once at
// startup from the detected runtime, so the machine itself stays free of
// platform conditionals. Probe acquisitions are released before the check
// returns, the machine never leaves hardware active.
package permissions
