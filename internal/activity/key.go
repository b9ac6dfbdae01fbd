package activity

import (
	"fmt"
	"sort"
)

// ID is a compact identifier for an activity label. IDs are dense and stable
// within the Key that issued them; they are not comparable across keys.
type ID int

// None marks the absence of an activity (silent transitions).
const None ID = -1

// Key interns activity labels to dense IDs. The zero value is not usable;
// construct with NewKey.
type Key struct {
	labels []string
	index  map[string]ID
}

// NewKey returns an empty registry.
func NewKey() *Key {
	return &Key{index: make(map[string]ID)}
}

// Intern returns the ID for label, issuing a fresh one on first sight.
func (k *Key) Intern(label string) ID {
	if id, ok := k.index[label]; ok {
		return id
	}
	id := ID(len(k.labels))
	k.labels = append(k.labels, label)
	k.index[label] = id
	return id
}

// Label returns the label behind id, or "" for None and unknown IDs.
func (k *Key) Label(id ID) string {
	if id < 0 || int(id) >= len(k.labels) {
		return ""
	}
	return k.labels[id]
}

// Size returns the number of interned labels.
func (k *Key) Size() int {
	return len(k.labels)
}

// Labels returns the interned labels in a stable, sorted order.
func (k *Key) Labels() []string {
	out := append([]string(nil), k.labels...)
	sort.Strings(out)
	return out
}

// Validate reports whether id was issued by this key.
func (k *Key) Validate(id ID) error {
	if id == None {
		return nil
	}
	if id < 0 || int(id) >= len(k.labels) {
		return fmt.Errorf("activity %d is not part of this key", id)
	}
	return nil
}

// Translator remaps IDs of a source key onto a target key, interning labels
// into the target as needed.
type Translator struct {
	mapping []ID
}

// NewTranslator builds the source-to-target mapping. The target key is grown
// by every source label it has not seen.
func NewTranslator(from, to *Key) *Translator {
	mapping := make([]ID, len(from.labels))
	for i, label := range from.labels {
		mapping[i] = to.Intern(label)
	}
	return &Translator{mapping: mapping}
}

// Translate maps a source ID to the target key. None stays None.
func (t *Translator) Translate(id ID) ID {
	if id < 0 || int(id) >= len(t.mapping) {
		return None
	}
	return t.mapping[id]
}
