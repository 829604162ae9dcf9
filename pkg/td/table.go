package td

import (
	"encoding/json"
	"slices"
)

// DefaultValue is the estimate of a state that has never been updated.
const DefaultValue = 0.5

// ValueTable maps afterstates to their estimated outcome on a [0,1] scale.
// It is not safe for concurrent writers; concurrent Value calls are fine as
// long as nothing writes.
type ValueTable struct {
	values map[StateKey]float64
}

func NewValueTable() *ValueTable {
	return &ValueTable{
		values: make(map[StateKey]float64),
	}
}

// GetOrInsertDefault returns the stored estimate for key, storing
// DefaultValue first if key has not been seen.
func (t *ValueTable) GetOrInsertDefault(key StateKey) float64 {
	v, ok := t.values[key]
	if !ok {
		v = DefaultValue
		t.values[key] = v
	}

	return v
}

// Value is a read-only lookup; unseen keys report DefaultValue.
func (t *ValueTable) Value(key StateKey) float64 {
	if v, ok := t.values[key]; ok {
		return v
	}

	return DefaultValue
}

func (t *ValueTable) Set(key StateKey, v float64) {
	t.values[key] = v
}

func (t *ValueTable) Len() int {
	return len(t.values)
}

// Keys returns all stored keys in lexical order.
func (t *ValueTable) Keys() []StateKey {
	keys := make([]StateKey, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

func (t *ValueTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.values)
}

func (t *ValueTable) UnmarshalJSON(data []byte) error {
	values := make(map[StateKey]float64)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	for k := range values {
		if _, err := Decode(k); err != nil {
			return err
		}
	}

	t.values = values
	return nil
}
