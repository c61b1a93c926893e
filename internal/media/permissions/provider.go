package permissions

import (
	"context"

	"shortlist/internal/media"
)

// PermissionBridge is the platform hook hybrid Android shells expose for
// requesting runtime permissions through OS dialogs.
type PermissionBridge interface {
	RequestPermissions(ctx context.Context, capabilities ...media.Capability) (map[media.Capability]bool, error)
}

// SelectProvider picks the provider variant for the detected runtime. The
// choice happens once at startup; the state machine never branches on
// platform afterwards. The bridge may be nil, hybrid Android degrades to the
// generic acquisition probe in that case.
func SelectProvider(devices media.Devices, runtime media.Runtime, bridge PermissionBridge) Provider {
	if runtime.Kind == media.RuntimeHybrid {
		switch runtime.OS {
		case media.OSIOS:
			return &HybridIOSProvider{Devices: devices, Runtime: runtime}
		case media.OSAndroid:
			return &HybridAndroidProvider{Devices: devices, Runtime: runtime, Bridge: bridge}
		}
	}
	return &WebProvider{Devices: devices, Runtime: runtime}
}
