package blackboard

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Entry is one (key, tagged value) pair of a snapshot.
type Entry struct {
	Key   string
	Value Value
}

type entryJSON struct {
	Key   string           `json:"key"`
	Type  domain.ValueType `json:"type"`
	Value json.RawMessage  `json:"value"`
}

// MarshalJSON encodes the entry as {"key":"hp","type":"int","value":3}.
func (e Entry) MarshalJSON() ([]byte, error) {
	raw, err := e.Value.rawJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Key: e.Key, Type: e.Value.typ, Value: raw})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var aux entryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := decodeTagged(aux.Type, aux.Value)
	if err != nil {
		return fmt.Errorf("entry %q: %w", aux.Key, err)
	}
	e.Key = aux.Key
	e.Value = v
	return nil
}

// Snapshot returns a copy of every entry, ordered by key.
func (b *Blackboard) Snapshot() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for _, k := range b.Keys() {
		out = append(out, Entry{Key: k, Value: b.entries[k].value})
	}
	return out
}

// Restore writes entries into the blackboard. Existing keys keep their type and must
// match; missing keys are created unless the blackboard is strict. Restore validates all
// entries before applying any of them.
func (b *Blackboard) Restore(entries []Entry) error {
	pending := make(map[string]domain.ValueType, len(entries))
	for _, in := range entries {
		have, ok := pending[in.Key]
		if !ok {
			e, exists := b.entries[in.Key]
			switch {
			case exists:
				have = e.value.typ
			case b.strict:
				return fmt.Errorf("%w: %q", domain.ErrUnknownKey, in.Key)
			default:
				pending[in.Key] = in.Value.typ
				continue
			}
			pending[in.Key] = have
		}
		if have != in.Value.typ {
			return &domain.TypeMismatchError{Key: in.Key, Want: in.Value.typ, Have: have}
		}
	}
	for _, in := range entries {
		if e, ok := b.entries[in.Key]; ok {
			e.value = in.Value
			continue
		}
		b.entries[in.Key] = &entry{key: in.Key, value: in.Value}
	}
	return nil
}

// Seed writes loosely typed values (as decoded from configuration) into the blackboard
// following the same rules as Restore.
func (b *Blackboard) Seed(values map[string]any) error {
	entries := make([]Entry, 0, len(values))
	for k, raw := range values {
		v, err := ValueFromAny(raw)
		if err != nil {
			return fmt.Errorf("seed %q: %w", k, err)
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return b.Restore(entries)
}
