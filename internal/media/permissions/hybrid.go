package permissions

import (
	"context"
	"fmt"

	"shortlist/internal/media"
)

// HybridIOSProvider negotiates permission inside an iOS app shell. The OS
// drives its own dialogs from the app's usage strings, so the provider waits
// for the shell to finish initializing and then runs the generic acquisition
// probe.
type HybridIOSProvider struct {
	Devices media.Devices
	Runtime media.Runtime
}

// Check implements Provider.
func (p *HybridIOSProvider) Check(ctx context.Context) error {
	if err := p.Runtime.WaitReady(ctx); err != nil {
		return fmt.Errorf("app runtime not ready: %w", err)
	}
	return probeAcquisition(ctx, p.Devices, p.Runtime)
}

// hybridAndroidCapabilities are the runtime permissions an Android shell must
// hold for camera and microphone capture.
var hybridAndroidCapabilities = []media.Capability{
	media.CapabilityCamera,
	media.CapabilityMicrophone,
	media.CapabilityAudioSettings,
}

// HybridAndroidProvider negotiates permission inside an Android app shell,
// preferring the shell's permission bridge over the generic media probe. A
// missing bridge is not treated as granted: the provider degrades to the
// acquisition probe and only reports granted when that succeeds.
type HybridAndroidProvider struct {
	Devices media.Devices
	Runtime media.Runtime
	Bridge  PermissionBridge
}

// Check implements Provider.
func (p *HybridAndroidProvider) Check(ctx context.Context) error {
	if err := p.Runtime.WaitReady(ctx); err != nil {
		return fmt.Errorf("app runtime not ready: %w", err)
	}

	if p.Bridge == nil {
		return probeAcquisition(ctx, p.Devices, p.Runtime)
	}

	grants, err := p.Bridge.RequestPermissions(ctx, hybridAndroidCapabilities...)
	if err != nil {
		return fmt.Errorf("request app permissions: %w", err)
	}
	for _, capability := range hybridAndroidCapabilities {
		if !grants[capability] {
			return fmt.Errorf("permission %s was refused, allow it in the app's system settings: %w",
				capability, media.ErrPermissionDenied)
		}
	}
	return nil
}
