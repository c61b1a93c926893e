package permissions

import (
	"context"
	"errors"
	"fmt"

	"shortlist/internal/media"
)

// WebProvider negotiates permission in an ordinary browser runtime. It first
// reads permission state without prompting; only when that is inconclusive
// does it fall back to a transient combined audio and video acquisition.
type WebProvider struct {
	Devices media.Devices
	Runtime media.Runtime
}

// Check implements Provider.
func (p *WebProvider) Check(ctx context.Context) error {
	camera, cameraErr := p.Devices.QueryPermission(ctx, media.CapabilityCamera)
	microphone, microphoneErr := p.Devices.QueryPermission(ctx, media.CapabilityMicrophone)

	// Both already granted: done, no prompt and no hardware touch.
	if cameraErr == nil && microphoneErr == nil &&
		camera == media.PermissionGranted && microphone == media.PermissionGranted {
		return nil
	}

	return probeAcquisition(ctx, p.Devices, p.Runtime)
}

// probeAcquisition opens a transient combined audio+video stream to force the
// platform prompt, releasing it immediately on success.
func probeAcquisition(ctx context.Context, devices media.Devices, runtime media.Runtime) error {
	stream, err := devices.AcquireStream(ctx, media.Constraints{Audio: true, Video: true})
	if err != nil {
		return denialError(err, runtime)
	}
	media.ReleaseStream(stream)
	return nil
}

// denialError wraps an acquisition failure with platform-aware remediation
// guidance.
func denialError(err error, runtime media.Runtime) error {
	if errors.Is(err, media.ErrDeviceUnavailable) {
		return fmt.Errorf("camera or microphone is unavailable right now: %w", err)
	}
	switch runtime.OS {
	case media.OSIOS:
		return fmt.Errorf("camera and microphone access is blocked, open Settings > Safari > Camera & Microphone Access and allow it for this site: %w", err)
	case media.OSAndroid:
		return fmt.Errorf("camera and microphone access is blocked, open your browser's site settings and allow camera and microphone for this site: %w", err)
	default:
		return fmt.Errorf("camera and microphone access was refused, allow access in your browser and retry: %w", err)
	}
}
