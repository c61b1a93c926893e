package media

import (
	"context"
	"strings"
)

// RuntimeKind distinguishes a plain web runtime from an embedded hybrid app.
type RuntimeKind string

const (
	RuntimeWeb    RuntimeKind = "web"
	RuntimeHybrid RuntimeKind = "hybrid"
)

// OSFamily is the coarse mobile OS classification used for permission
// remediation text and camera constraint fallbacks.
type OSFamily string

const (
	OSIOS     OSFamily = "ios"
	OSAndroid OSFamily = "android"
	OSOther   OSFamily = "other"
)

// Runtime describes the environment the media stack runs in. Ready is nil for
// web runtimes; hybrid runtimes close it once platform initialization has
// finished and device APIs are usable.
type Runtime struct {
	Kind      RuntimeKind
	OS        OSFamily
	UserAgent string
	Ready     <-chan struct{}
}

// DetectRuntime classifies an environment from its user agent string. The
// hybrid flag and readiness channel come from the embedding shell, which knows
// whether it is wrapped in an app container.
func DetectRuntime(userAgent string, hybrid bool, ready <-chan struct{}) Runtime {
	kind := RuntimeWeb
	if hybrid {
		kind = RuntimeHybrid
	}
	return Runtime{
		Kind:      kind,
		OS:        DetectOS(userAgent),
		UserAgent: userAgent,
		Ready:     ready,
	}
}

// DetectOS classifies a user agent into an OS family.
func DetectOS(userAgent string) OSFamily {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return OSIOS
	case strings.Contains(ua, "android"):
		return OSAndroid
	default:
		return OSOther
	}
}

// Mobile reports whether the runtime is on a known mobile OS.
func (r Runtime) Mobile() bool {
	return r.OS == OSIOS || r.OS == OSAndroid
}

// WaitReady blocks until the hybrid runtime signals readiness or the context
// ends. A nil Ready channel means the runtime is ready immediately.
func (r Runtime) WaitReady(ctx context.Context) error {
	if r.Ready == nil {
		return nil
	}
	select {
	case <-r.Ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
