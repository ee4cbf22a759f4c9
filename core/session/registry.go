package session

import (
	"sync"

	coreerrors "github.com/aminfa/assert-tv/core/errors"
)

// Registry holds at most one live session. Execution contexts that need
// isolated sessions (one per test goroutine, for example) each own a
// Registry; the package-level Open shares a process-wide one behind a
// coarse lock instead.
type Registry struct {
	mu     sync.Mutex
	active *Session
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Open creates a session for the vector at path and claims this registry's
// slot. It fails with ErrAlreadyActive while a previous handle from the
// same registry is still open.
func (r *Registry) Open(path string, options Options) (*Handle, error) {
	return r.open(path, options, nil)
}

func (r *Registry) open(path string, options Options, release func()) (*Handle, error) {
	session, err := newSession(path, options)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return nil, coreerrors.Wrap(ErrAlreadyActive,
			coreerrors.CategoryStateContention, "session_already_active",
			"close the active session handle before opening another")
	}
	r.active = session
	return &Handle{registry: r, session: session, release: release}, nil
}

// Active returns the registry's live session. Code under test that cannot
// thread the session through its call chain reaches it here.
func (r *Registry) Active() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil, coreerrors.Wrap(ErrNoActiveSession,
			coreerrors.CategoryStateContention, "no_active_session",
			"open a session before asking for the active one")
	}
	return r.active, nil
}

func (r *Registry) clear(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == session {
		r.active = nil
	}
}

// Handle scopes one live session. Closing it finalizes the session,
// clears the registry slot, and releases the process-wide lock when the
// handle came from the package-level Open. Close always runs its teardown,
// even when persistence fails, so a failed run can never wedge the next
// open behind a stale slot. Defer Close immediately after a successful
// Open; it is safe to call more than once.
type Handle struct {
	registry *Registry
	session  *Session
	release  func()

	once     sync.Once
	closeErr error
}

// Session returns the session this handle owns. The session stays usable
// until Close.
func (h *Handle) Session() *Session { return h.session }

func (h *Handle) Close() error {
	h.once.Do(func() {
		h.closeErr = h.session.shutdown()
		h.registry.clear(h.session)
		if h.release != nil {
			h.release()
		}
	})
	return h.closeErr
}

var (
	// globalMu serializes all sessions opened through the package-level
	// Open for the whole handle lifetime, not just the slot update. Vector
	// sessions are mutually exclusive in time; concurrent opens block
	// until the active handle closes.
	globalMu        sync.Mutex
	defaultRegistry = NewRegistry()
)

// Open claims the process-wide session slot, blocking while another handle
// from Open is still live. Per-context isolation without the process-wide
// lock is available through NewRegistry.
func Open(path string, options Options) (*Handle, error) {
	globalMu.Lock()
	handle, err := defaultRegistry.open(path, options, globalMu.Unlock)
	if err != nil {
		globalMu.Unlock()
		return nil, err
	}
	return handle, nil
}

// Active returns the session opened through the package-level Open.
func Active() (*Session, error) {
	return defaultRegistry.Active()
}
