package vector

// EntryKind discriminates how an entry behaves on replay: Const values are
// re-injected from the recording without comparison, Output values must
// match the recording exactly.
type EntryKind string

const (
	KindConst  EntryKind = "Const"
	KindOutput EntryKind = "Output"
)

// Entry is one recorded observation at one call-site position. Optional
// string fields use the empty string for "absent". Value holds a normalized
// structured tree (nil, bool, float64, string, []any, map[string]any); nil
// means the value is absent, either legitimately or because it is offloaded
// to a sidecar file.
type Entry struct {
	Kind                EntryKind `json:"entry_type" yaml:"entry_type" toml:"entry_type"`
	Description         string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Name                string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Value               any       `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	CodeLocation        string    `json:"code_location,omitempty" yaml:"code_location,omitempty" toml:"code_location,omitempty"`
	DeclarationLocation string    `json:"declaration_location,omitempty" yaml:"declaration_location,omitempty" toml:"declaration_location,omitempty"`
	Offload             bool      `json:"offload,omitempty" yaml:"offload,omitempty" toml:"offload,omitempty"`
}

// Document is the persisted form of one test vector file: the ordered entry
// sequence observed during a run. Position in Entries is the sole
// correlation key between a loaded recording and a live run.
type Document struct {
	Entries []Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// Clone returns a deep-enough copy for persistence transforms: the entry
// slice is copied so offload stripping never mutates the caller's document.
// Entry values themselves are shared; persistence only replaces them.
func (d Document) Clone() Document {
	entries := make([]Entry, len(d.Entries))
	copy(entries, d.Entries)
	return Document{Entries: entries}
}
