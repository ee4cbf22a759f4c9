// Package session drives one test vector recording from open to close: it
// loads the recording in check mode, collects observed entries in call
// order, and persists the recorded document in init mode when it changed.
package session

import (
	"os"
	"reflect"
	"sync"

	"github.com/aminfa/assert-tv/core/codec"
	coreerrors "github.com/aminfa/assert-tv/core/errors"
	"github.com/aminfa/assert-tv/core/fsx"
	"github.com/aminfa/assert-tv/core/offload"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

// Options configures how a session opens its vector file. The zero value
// derives the format from the file extension and the mode from TEST_MODE.
type Options struct {
	Format codec.Format
	Mode   Mode
}

// Session holds the loaded and recorded entry streams for one vector file.
// Sessions are created through Open or Registry.Open and torn down by
// closing the returned handle; entry processing serializes on an internal
// lock so a session may be driven from helper goroutines of one test.
type Session struct {
	path   string
	format codec.Format
	mode   Mode

	mu       sync.Mutex
	loaded   vector.Document
	recorded vector.Document
	closed   bool
}

func (s *Session) Path() string { return s.path }

func (s *Session) Format() codec.Format { return s.format }

func (s *Session) Mode() Mode { return s.mode }

func newSession(path string, options Options) (*Session, error) {
	format := options.Format
	if format == "" {
		derived, err := codec.FormatForPath(path)
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "vector_format_unknown",
				"name the vector file with a .json, .yaml, or .toml extension or set Options.Format")
		}
		format = derived
	} else {
		parsed, err := codec.ParseFormat(string(format))
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "vector_format_unknown",
				"set Options.Format to json, yaml, or toml")
		}
		format = parsed
	}

	mode := options.Mode
	if mode == "" {
		mode = ModeFromEnvironment()
	} else {
		parsed, err := ParseMode(string(mode))
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "mode_unknown",
				"set Options.Mode to init or check")
		}
		mode = parsed
	}

	session := &Session{path: path, format: format, mode: mode}
	if mode == ModeCheck {
		loaded, err := loadDocument(path, format)
		if err != nil {
			return nil, err
		}
		session.loaded = loaded
	}
	// Init mode starts from an empty loaded document unconditionally; a
	// missing or stale file is not consulted and not an error.
	return session, nil
}

func loadDocument(path string, format codec.Format) (vector.Document, error) {
	// #nosec G304 -- the harness opens its own vector file by explicit path.
	data, err := os.ReadFile(path)
	if err != nil {
		return vector.Document{}, wrapLoad(path, err)
	}
	document, err := codec.Decode(data, format)
	if err != nil {
		return vector.Document{}, wrapLoad(path, err)
	}
	hydrated, err := offload.LoadDocumentValues(path, document)
	if err != nil {
		return vector.Document{}, wrapLoad(path, err)
	}
	return hydrated, nil
}

func wrapLoad(path string, cause error) error {
	return coreerrors.Wrap(&LoadError{Path: path, Err: cause},
		coreerrors.CategoryIOFailure, "vector_load_failed",
		"switch to init mode to record the vector")
}

func wrapWrite(path string, cause error) error {
	return coreerrors.Wrap(&WriteError{Path: path, Err: cause},
		coreerrors.CategoryIOFailure, "vector_write_failed",
		"check that the vector directory is writable")
}

// shutdown finalizes the session exactly once; later entry processing fails
// with ErrNoActiveSession.
func (s *Session) shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.finalize()
}

// finalize persists the recorded document in init mode when it differs from
// the loaded one or the file does not exist yet. Check mode never writes.
func (s *Session) finalize() error {
	if s.mode != ModeInit {
		return nil
	}
	needsWrite := !documentsEqual(s.loaded, s.recorded)
	if !needsWrite {
		info, err := os.Stat(s.path)
		needsWrite = err != nil || !info.Mode().IsRegular()
	}
	if !needsWrite {
		return nil
	}
	return s.persist()
}

func (s *Session) persist() error {
	if err := fsx.EnsureParentDir(s.path, 0o755); err != nil {
		return wrapWrite(s.path, err)
	}
	// Sidecars first: the persisted main document nulls out every offloaded
	// value, so the stripped copy below is what gets encoded.
	stripped, err := offload.StoreDocumentValues(s.path, s.recorded)
	if err != nil {
		return wrapWrite(s.path, err)
	}
	encoded, err := codec.Encode(stripped, s.format)
	if err != nil {
		return wrapWrite(s.path, err)
	}
	if err := fsx.WriteFileAtomic(s.path, encoded, 0o644); err != nil {
		return wrapWrite(s.path, err)
	}
	return nil
}

// documentsEqual compares entry sequences element-wise over every field.
// Values were normalized on ingestion, so deep equality is exact.
func documentsEqual(a, b vector.Document) bool {
	if len(a.Entries) == 0 && len(b.Entries) == 0 {
		return true
	}
	return reflect.DeepEqual(a.Entries, b.Entries)
}
