package utils

import (
	"encoding/json"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StringSet is a set of unique strings.
type StringSet struct {
	m map[string]struct{}
}

func NewStringSet(strings ...string) *StringSet {
	res := &StringSet{
		m: map[string]struct{}{},
	}
	for _, s := range strings {
		res.Add(s)
	}
	return res
}

// Add adds a string to the set and reports whether it was not already present.
func (s *StringSet) Add(str string) bool {
	if s.m == nil {
		s.m = map[string]struct{}{}
	}
	if _, exists := s.m[str]; exists {
		return false
	}
	s.m[str] = struct{}{}
	return true
}

func (s *StringSet) AddAll(strings ...string) {
	for _, str := range strings {
		s.Add(str)
	}
}

func (s *StringSet) Contains(str string) bool {
	_, exists := s.m[str]
	return exists
}

func (s *StringSet) IsEmpty() bool {
	return s == nil || len(s.m) == 0
}

func (s *StringSet) TotalStrings() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// ToSlice returns the strings of the set in ascending order.
func (s *StringSet) ToSlice() []string {
	if s.IsEmpty() {
		return nil
	}
	res := maps.Keys(s.m)
	slices.Sort(res)
	return res
}

// MarshalJSON writes the set as a sorted array. An empty set is written as [] rather than null.
func (s *StringSet) MarshalJSON() ([]byte, error) {
	values := s.ToSlice()
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.m = map[string]struct{}{}
	s.AddAll(values...)
	return nil
}
