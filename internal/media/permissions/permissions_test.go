package permissions_test

import (
	"context"
	"strings"
	"testing"

	"shortlist/internal/media"
	"shortlist/internal/media/permissions"
	"shortlist/internal/testsupport"
)

const (
	iosUserAgent     = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	androidUserAgent = "Mozilla/5.0 (Linux; Android 14; Pixel 8)"
	desktopUserAgent = "Mozilla/5.0 (X11; Linux x86_64)"
)

func webRuntime(userAgent string) media.Runtime {
	return media.DetectRuntime(userAgent, false, nil)
}

func TestProbeGrantedSkipsAcquisition(t *testing.T) {
	devices := &testsupport.FakeDevices{
		Permissions: map[media.Capability]media.PermissionState{
			media.CapabilityCamera:     media.PermissionGranted,
			media.CapabilityMicrophone: media.PermissionGranted,
		},
	}
	machine := permissions.NewMachine(permissions.SelectProvider(devices, webRuntime(desktopUserAgent), nil), nil)

	machine.Start(context.Background())

	if !machine.Granted() {
		t.Fatalf("expected granted, got %s (%s)", machine.State(), machine.Err())
	}
	if devices.Acquisitions() != 0 {
		t.Fatalf("granted probe must not acquire a stream, got %d acquisitions", devices.Acquisitions())
	}
}

func TestInconclusiveProbeAcquiresAndReleases(t *testing.T) {
	devices := &testsupport.FakeDevices{
		Permissions: map[media.Capability]media.PermissionState{
			media.CapabilityCamera:     media.PermissionPrompt,
			media.CapabilityMicrophone: media.PermissionPrompt,
		},
	}
	machine := permissions.NewMachine(permissions.SelectProvider(devices, webRuntime(desktopUserAgent), nil), nil)

	machine.Start(context.Background())

	if !machine.Granted() {
		t.Fatalf("expected granted, got %s (%s)", machine.State(), machine.Err())
	}
	if devices.Acquisitions() != 1 {
		t.Fatalf("expected exactly one probe acquisition, got %d", devices.Acquisitions())
	}
	if live := devices.LiveTracks(); live != 0 {
		t.Fatalf("probe must release the stream, %d tracks still live", live)
	}
	request := devices.LastRequest()
	if !request.Audio || !request.Video {
		t.Fatalf("probe must request combined audio+video, got %+v", request)
	}
}

func TestDeniedCarriesPlatformGuidance(t *testing.T) {
	cases := []struct {
		name      string
		userAgent string
		wantHint  string
	}{
		{"ios", iosUserAgent, "Settings > Safari"},
		{"android", androidUserAgent, "site settings"},
		{"desktop", desktopUserAgent, "allow access in your browser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			devices := &testsupport.FakeDevices{AcquireErr: media.ErrPermissionDenied}
			machine := permissions.NewMachine(permissions.SelectProvider(devices, webRuntime(tc.userAgent), nil), nil)

			machine.Start(context.Background())

			if machine.Granted() {
				t.Fatal("expected denial")
			}
			if machine.State() != permissions.StateDenied {
				t.Fatalf("expected denied state, got %s", machine.State())
			}
			if !strings.Contains(machine.Err(), tc.wantHint) {
				t.Fatalf("expected guidance containing %q, got %q", tc.wantHint, machine.Err())
			}
		})
	}
}

func TestUserRetryAfterDenial(t *testing.T) {
	devices := &testsupport.FakeDevices{AcquireErr: media.ErrPermissionDenied}
	machine := permissions.NewMachine(permissions.SelectProvider(devices, webRuntime(desktopUserAgent), nil), nil)

	machine.Start(context.Background())
	if machine.State() != permissions.StateDenied {
		t.Fatalf("expected denied, got %s", machine.State())
	}

	// The user fixes the browser setting, then retries.
	devices.AcquireErr = nil
	machine.Request(context.Background())

	if !machine.Granted() {
		t.Fatalf("expected granted after retry, got %s (%s)", machine.State(), machine.Err())
	}
	if machine.Err() != "" {
		t.Fatalf("expected cleared error, got %q", machine.Err())
	}
	if live := devices.LiveTracks(); live != 0 {
		t.Fatalf("retry probe must release the stream, %d tracks still live", live)
	}
}

func TestHybridIOSWaitsForRuntimeReady(t *testing.T) {
	devices := &testsupport.FakeDevices{}
	ready := make(chan struct{})
	rt := media.DetectRuntime(iosUserAgent, true, ready)
	machine := permissions.NewMachine(permissions.SelectProvider(devices, rt, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	machine.Start(ctx)
	if machine.Granted() {
		t.Fatal("check must not succeed before the runtime is ready")
	}
	if devices.Acquisitions() != 0 {
		t.Fatal("no acquisition may happen before the runtime is ready")
	}

	close(ready)
	machine.Request(context.Background())
	if !machine.Granted() {
		t.Fatalf("expected granted after runtime ready, got %s (%s)", machine.State(), machine.Err())
	}
	if live := devices.LiveTracks(); live != 0 {
		t.Fatalf("probe must release the stream, %d tracks still live", live)
	}
}

func TestHybridAndroidUsesBridge(t *testing.T) {
	devices := &testsupport.FakeDevices{}
	bridge := &testsupport.FakeBridge{Grants: map[media.Capability]bool{
		media.CapabilityCamera:        true,
		media.CapabilityMicrophone:    true,
		media.CapabilityAudioSettings: true,
	}}
	rt := media.DetectRuntime(androidUserAgent, true, nil)
	machine := permissions.NewMachine(permissions.SelectProvider(devices, rt, bridge), nil)

	machine.Start(context.Background())

	if !machine.Granted() {
		t.Fatalf("expected granted, got %s (%s)", machine.State(), machine.Err())
	}
	if devices.Acquisitions() != 0 {
		t.Fatal("bridge path must not touch the media stack")
	}
	calls := bridge.Calls()
	if len(calls) != 1 || len(calls[0]) != 3 {
		t.Fatalf("expected one bridge request for three capabilities, got %+v", calls)
	}
}

func TestHybridAndroidBridgeRefusalDenies(t *testing.T) {
	devices := &testsupport.FakeDevices{}
	bridge := &testsupport.FakeBridge{Grants: map[media.Capability]bool{
		media.CapabilityCamera:     true,
		media.CapabilityMicrophone: false,
	}}
	rt := media.DetectRuntime(androidUserAgent, true, nil)
	machine := permissions.NewMachine(permissions.SelectProvider(devices, rt, bridge), nil)

	machine.Start(context.Background())

	if machine.State() != permissions.StateDenied {
		t.Fatalf("expected denied, got %s", machine.State())
	}
	if !strings.Contains(machine.Err(), string(media.CapabilityMicrophone)) {
		t.Fatalf("expected refused capability in message, got %q", machine.Err())
	}
}

func TestHybridAndroidMissingBridgeFallsBackToProbe(t *testing.T) {
	devices := &testsupport.FakeDevices{}
	rt := media.DetectRuntime(androidUserAgent, true, nil)
	machine := permissions.NewMachine(permissions.SelectProvider(devices, rt, nil), nil)

	machine.Start(context.Background())

	if !machine.Granted() {
		t.Fatalf("expected granted via probe, got %s (%s)", machine.State(), machine.Err())
	}
	if devices.Acquisitions() != 1 {
		t.Fatalf("missing bridge must fall back to one probe acquisition, got %d", devices.Acquisitions())
	}
	if live := devices.LiveTracks(); live != 0 {
		t.Fatalf("probe must release the stream, %d tracks still live", live)
	}

	// And the probe's verdict is honored, never an optimistic grant.
	failing := &testsupport.FakeDevices{AcquireErr: media.ErrPermissionDenied}
	machine = permissions.NewMachine(permissions.SelectProvider(failing, rt, nil), nil)
	machine.Start(context.Background())
	if machine.State() != permissions.StateDenied {
		t.Fatalf("expected denied when the probe fails, got %s", machine.State())
	}
}
