package qonos

import "encoding/json"

// Pair is one ordered metadata row.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata is an ordered sequence of key/value pairs. Schedules carry it as
// tenant-supplied annotations; jobs carry a point-in-time copy taken at
// materialization. Duplicate keys are allowed at this layer.
type Metadata []Pair

// Clone returns a deep copy. Used at materialization so later schedule edits
// never leak into existing jobs.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	cp := make(Metadata, len(m))
	copy(cp, m)
	return cp
}

// Flatten reshapes the ordered pairs into a flat key→value map for external
// consumption. Duplicate keys collapse: the last pair in iteration order
// wins. This is lossy and deliberate; callers must not read it as a
// uniqueness guarantee.
func (m Metadata) Flatten() map[string]string {
	flat := make(map[string]string, len(m))
	for _, p := range m {
		flat[p.Key] = p.Value
	}
	return flat
}

// Snapshot renders the flattened form as canonical JSON (keys sorted by
// encoding/json). Fault records store this stable textual representation.
func (m Metadata) Snapshot() (string, error) {
	b, err := json.Marshal(m.Flatten())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
