package permissions

import (
	"context"
	"sync"

	"log/slog"

	"shortlist/internal/logging"
)

// State is a phase of the permission negotiation lifecycle.
type State string

const (
	StateUnknown  State = "unknown"
	StateChecking State = "checking"
	StateGranted  State = "granted"
	StateDenied   State = "denied"
)

// Provider performs one permission check for camera plus microphone access.
// A nil return means both are granted; an error carries the user-facing
// denial message.
type Provider interface {
	Check(ctx context.Context) error
}

// Machine drives permission state for a session: unknown, then checking, then
// granted or denied. Retries are always user-initiated through Request; the
// machine never retries on its own.
type Machine struct {
	provider Provider
	logger   *slog.Logger

	mu      sync.Mutex
	state   State
	lastErr string
}

// NewMachine builds a machine in the unknown state.
func NewMachine(provider Provider, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Machine{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "permissions"),
		state:    StateUnknown,
	}
}

// Start runs the initial non-intrusive probe. Call once at session start.
func (m *Machine) Start(ctx context.Context) {
	m.run(ctx)
}

// Request re-checks permission on behalf of the user, typically wired to a
// retry action after a denial.
func (m *Machine) Request(ctx context.Context) {
	m.run(ctx)
}

func (m *Machine) run(ctx context.Context) {
	m.mu.Lock()
	m.state = StateChecking
	m.lastErr = ""
	m.mu.Unlock()

	err := m.provider.Check(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateDenied
		m.lastErr = err.Error()
		m.logger.Info("media permission denied", logging.String("reason", err.Error()))
		return
	}
	m.state = StateGranted
	m.logger.Debug("media permission granted")
}

// State returns the current lifecycle phase.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Granted reports whether both capabilities are available.
func (m *Machine) Granted() bool {
	return m.State() == StateGranted
}

// Checking reports whether a check is in flight.
func (m *Machine) Checking() bool {
	return m.State() == StateChecking
}

// Err returns the last denial message, empty when none.
func (m *Machine) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
