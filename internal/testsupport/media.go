package testsupport

import (
	"context"
	"sync"

	"shortlist/internal/media"
)

// FakeTrack is a scripted media track that counts its own liveness through
// the owning FakeDevices.
type FakeTrack struct {
	kind    string
	devices *FakeDevices

	mu      sync.Mutex
	stopped bool
}

// Kind reports the track kind, "audio" or "video".
func (t *FakeTrack) Kind() string { return t.kind }

// Stop releases the track. Repeated stops are counted once.
func (t *FakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.devices.trackStopped()
}

// FakeStream is a scripted media stream.
type FakeStream struct {
	tracks []media.Track
}

// Tracks returns the stream's tracks.
func (s *FakeStream) Tracks() []media.Track { return s.tracks }

// FakeDevices is a scriptable media.Devices implementation. Zero value: every
// permission query answers PermissionUnknown and acquisition succeeds.
type FakeDevices struct {
	mu sync.Mutex

	// Permissions maps capabilities to scripted query answers. Missing
	// entries answer PermissionUnknown.
	Permissions map[media.Capability]media.PermissionState
	// QueryErr, when set, fails every permission query.
	QueryErr error
	// AcquireErr, when set, fails every acquisition.
	AcquireErr error

	acquisitions int
	lastRequest  media.Constraints
	liveTracks   int
}

// QueryPermission returns the scripted permission state for the capability.
func (d *FakeDevices) QueryPermission(_ context.Context, capability media.Capability) (media.PermissionState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.QueryErr != nil {
		return media.PermissionUnknown, d.QueryErr
	}
	if state, ok := d.Permissions[capability]; ok {
		return state, nil
	}
	return media.PermissionUnknown, nil
}

// AcquireStream opens a fake stream with one track per requested media kind.
func (d *FakeDevices) AcquireStream(_ context.Context, constraints media.Constraints) (media.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acquisitions++
	d.lastRequest = constraints
	if d.AcquireErr != nil {
		return nil, d.AcquireErr
	}

	stream := &FakeStream{}
	if constraints.Audio {
		stream.tracks = append(stream.tracks, &FakeTrack{kind: "audio", devices: d})
		d.liveTracks++
	}
	if constraints.Video {
		stream.tracks = append(stream.tracks, &FakeTrack{kind: "video", devices: d})
		d.liveTracks++
	}
	return stream, nil
}

func (d *FakeDevices) trackStopped() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.liveTracks--
}

// Acquisitions reports how many times AcquireStream was called.
func (d *FakeDevices) Acquisitions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquisitions
}

// LastRequest returns the constraints of the most recent acquisition.
func (d *FakeDevices) LastRequest() media.Constraints {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRequest
}

// LiveTracks reports how many acquired tracks have not been stopped.
func (d *FakeDevices) LiveTracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.liveTracks
}

// FakeBridge is a scriptable platform permission bridge.
type FakeBridge struct {
	mu sync.Mutex

	// Grants maps capabilities to scripted answers. Missing entries deny.
	Grants map[media.Capability]bool
	// Err, when set, fails every request.
	Err error

	calls [][]media.Capability
}

// RequestPermissions returns the scripted grant decision per capability.
func (b *FakeBridge) RequestPermissions(_ context.Context, capabilities ...media.Capability) (map[media.Capability]bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, append([]media.Capability(nil), capabilities...))
	if b.Err != nil {
		return nil, b.Err
	}
	result := make(map[media.Capability]bool, len(capabilities))
	for _, capability := range capabilities {
		result[capability] = b.Grants[capability]
	}
	return result, nil
}

// Calls returns the capability sets requested so far.
func (b *FakeBridge) Calls() [][]media.Capability {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// FakeSurface is a scriptable camera preview surface.
type FakeSurface struct {
	mu sync.Mutex

	// AttachErr, when set, fails Attach.
	AttachErr error
	// PlayErr, when set, fails Play.
	PlayErr error

	attached media.Stream
	played   bool
	cleared  int
}

// Attach binds a stream to the surface.
func (s *FakeSurface) Attach(stream media.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AttachErr != nil {
		return s.AttachErr
	}
	s.attached = stream
	return nil
}

// Play starts surface playback.
func (s *FakeSurface) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PlayErr != nil {
		return s.PlayErr
	}
	s.played = true
	return nil
}

// Clear detaches any bound stream.
func (s *FakeSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = nil
	s.played = false
	s.cleared++
}

// Attached returns the currently bound stream, nil after Clear.
func (s *FakeSurface) Attached() media.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Played reports whether playback was started.
func (s *FakeSurface) Played() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}

// ClearCount reports how many times the surface was cleared.
func (s *FakeSurface) ClearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}
