package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"log/slog"

	"shortlist/internal/logging"
	"shortlist/internal/media"
)

// Surface is the preview target a camera stream renders into. Some surfaces
// need an explicit Play after Attach before frames appear.
type Surface interface {
	Attach(stream media.Stream) error
	Play() error
	Clear()
}

// PermissionSource gates camera startup on the negotiated permission state.
// *permissions.Machine satisfies it.
type PermissionSource interface {
	Granted() bool
}

// ErrPermissionNotGranted reports a Start attempt before permission
// negotiation reached granted.
var ErrPermissionNotGranted = errors.New("camera permission not granted")

// defaultConstraints are the preferred video capture settings: front camera
// with a modest resolution hint.
var defaultConstraints = media.Constraints{
	Video:       true,
	Facing:      media.FacingUser,
	IdealWidth:  640,
	IdealHeight: 480,
}

// Controller owns at most one live camera stream bound to a preview surface.
type Controller struct {
	devices     media.Devices
	surface     Surface
	runtime     media.Runtime
	permissions PermissionSource
	logger      *slog.Logger

	mu     sync.Mutex
	stream media.Stream
}

// NewController builds a controller with no active stream.
func NewController(devices media.Devices, surface Surface, runtime media.Runtime, permissions PermissionSource, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		devices:     devices,
		surface:     surface,
		runtime:     runtime,
		permissions: permissions,
		logger:      logging.NewComponentLogger(logger, "camera"),
	}
}

// Start acquires a video-only stream and binds it to the surface. Starting
// while a stream is active is a no-op. Any failure after acquisition tears
// the stream down so no half-attached state survives.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return nil
	}
	if c.permissions != nil && !c.permissions.Granted() {
		return ErrPermissionNotGranted
	}

	stream, err := c.acquire(ctx)
	if err != nil {
		return err
	}

	if err := c.surface.Attach(stream); err != nil {
		media.ReleaseStream(stream)
		return fmt.Errorf("attach preview: %w", err)
	}
	if err := c.surface.Play(); err != nil {
		c.surface.Clear()
		media.ReleaseStream(stream)
		return fmt.Errorf("start preview playback: %w", err)
	}

	c.stream = stream
	c.logger.Debug("camera preview started")
	return nil
}

// acquire opens the stream, retrying once with bare constraints on mobile
// where devices commonly reject resolution hints.
func (c *Controller) acquire(ctx context.Context) (media.Stream, error) {
	stream, err := c.devices.AcquireStream(ctx, defaultConstraints)
	if err == nil {
		return stream, nil
	}
	if c.runtime.Mobile() && errors.Is(err, media.ErrDeviceUnavailable) {
		fallback := media.Constraints{Video: true, Facing: media.FacingUser}
		if stream, retryErr := c.devices.AcquireStream(ctx, fallback); retryErr == nil {
			return stream, nil
		}
	}
	return nil, fmt.Errorf("acquire camera stream: %w", err)
}

// Stop releases the active stream and clears the surface. Safe to call at
// any time, in any state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return
	}
	c.surface.Clear()
	media.ReleaseStream(c.stream)
	c.stream = nil
	c.logger.Debug("camera preview stopped")
}

// Active reports whether a stream is currently live.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}
