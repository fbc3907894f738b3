package tui

import (
	"sort"

	"github.com/goliatone/go-optionspage/pkg/model"
)

// State tracks the values collected for one tab, seeded with what the page
// currently displays. Keys that end up absent are omitted from the
// submission, like an unchecked checkbox in the HTML form.
type State struct {
	values map[string]string
	errors map[string][]string
}

// NewState seeds the state with prefilled values and banner errors keyed by
// field id.
func NewState(prefill map[string]string, errs map[string][]string) *State {
	s := &State{
		values: make(map[string]string, len(prefill)),
		errors: make(map[string][]string, len(errs)),
	}
	for key, value := range prefill {
		s.values[key] = value
	}
	for key, list := range errs {
		s.errors[key] = append([]string(nil), list...)
	}
	return s
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]string {
	if s == nil {
		return nil
	}
	return s.values
}

// ErrorsFor returns the banner errors recorded for a field.
func (s *State) ErrorsFor(id string) []string {
	if s == nil {
		return nil
	}
	return s.errors[id]
}

// Get returns the value of id.
func (s *State) Get(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[id]
	return value, ok
}

// Current returns the stored value or the field default.
func (s *State) Current(field model.Field) string {
	if s == nil {
		return field.Default
	}
	return model.Values(s.values).Current(field)
}

// Set records a value.
func (s *State) Set(id, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[id] = value
}

// Delete removes id from the submission.
func (s *State) Delete(id string) {
	delete(s.values, id)
}

// Keys returns the collected ids sorted.
func (s *State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
