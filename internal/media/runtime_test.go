package media_test

import (
	"context"
	"testing"
	"time"

	"shortlist/internal/media"
)

func TestDetectOS(t *testing.T) {
	cases := []struct {
		userAgent string
		want      media.OSFamily
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", media.OSIOS},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", media.OSIOS},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", media.OSAndroid},
		{"Mozilla/5.0 (X11; Linux x86_64)", media.OSOther},
		{"", media.OSOther},
	}
	for _, tc := range cases {
		if got := media.DetectOS(tc.userAgent); got != tc.want {
			t.Errorf("DetectOS(%q) = %q, want %q", tc.userAgent, got, tc.want)
		}
	}
}

func TestDetectRuntime(t *testing.T) {
	rt := media.DetectRuntime("Mozilla/5.0 (Linux; Android 14)", true, make(chan struct{}))
	if rt.Kind != media.RuntimeHybrid || rt.OS != media.OSAndroid {
		t.Fatalf("unexpected runtime %+v", rt)
	}
	if !rt.Mobile() {
		t.Fatal("android runtime must report mobile")
	}

	web := media.DetectRuntime("Mozilla/5.0 (X11; Linux x86_64)", false, nil)
	if web.Kind != media.RuntimeWeb || web.Mobile() {
		t.Fatalf("unexpected runtime %+v", web)
	}
}

func TestWaitReady(t *testing.T) {
	web := media.Runtime{Kind: media.RuntimeWeb}
	if err := web.WaitReady(context.Background()); err != nil {
		t.Fatalf("nil Ready channel must be immediately ready: %v", err)
	}

	ready := make(chan struct{})
	hybrid := media.Runtime{Kind: media.RuntimeHybrid, Ready: ready}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := hybrid.WaitReady(ctx); err == nil {
		t.Fatal("expected context error while runtime is not ready")
	}

	close(ready)
	if err := hybrid.WaitReady(context.Background()); err != nil {
		t.Fatalf("closed Ready channel must unblock: %v", err)
	}
}
