package media

import (
	"context"
	"errors"
)

// Capability identifies one device permission surface.
type Capability string

const (
	CapabilityCamera        Capability = "camera"
	CapabilityMicrophone    Capability = "microphone"
	CapabilityAudioSettings Capability = "audio_settings"
)

// PermissionState is the result of a non-intrusive permission query.
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionPrompt  PermissionState = "prompt"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// Facing selects which camera a video constraint prefers.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Constraints describe the media stream a caller wants to acquire.
// Width and height are hints, not requirements.
type Constraints struct {
	Audio       bool
	Video       bool
	Facing      Facing
	IdealWidth  int
	IdealHeight int
}

// Track is one live media track. Stop releases the underlying hardware.
type Track interface {
	Kind() string
	Stop()
}

// Stream is a set of live tracks acquired together.
type Stream interface {
	Tracks() []Track
}

// Devices is the platform media stack. Implementations bind to a real
// device API; tests script one.
type Devices interface {
	// QueryPermission reads the current permission state without prompting.
	// PermissionUnknown with a nil error means the platform cannot answer
	// without a prompt.
	QueryPermission(ctx context.Context, capability Capability) (PermissionState, error)

	// AcquireStream prompts if necessary and opens a live stream. The caller
	// owns the stream and must stop every track when done.
	AcquireStream(ctx context.Context, constraints Constraints) (Stream, error)
}

// ErrPermissionDenied reports that the OS or browser refused media access.
var ErrPermissionDenied = errors.New("media permission denied")

// ErrDeviceUnavailable reports a failure unrelated to permission, such as
// hardware that is busy or missing.
var ErrDeviceUnavailable = errors.New("media device unavailable")

// ReleaseStream stops every track of a stream. Safe on nil.
func ReleaseStream(s Stream) {
	if s == nil {
		return
	}
	for _, track := range s.Tracks() {
		track.Stop()
	}
}
