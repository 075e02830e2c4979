package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSetAdd(t *testing.T) {
	set := NewStringSet()
	assert.True(t, set.IsEmpty())

	assert.True(t, set.Add("1.16.5"))
	assert.False(t, set.Add("1.16.5"), "second add of the same value must report no change")
	assert.Equal(t, 1, set.TotalStrings())
	assert.True(t, set.Contains("1.16.5"))
	assert.False(t, set.Contains("1.16.4"))
}

func TestStringSetToSliceIsSorted(t *testing.T) {
	set := NewStringSet("forge", "fabric", "forge", "rift")
	assert.Equal(t, []string{"fabric", "forge", "rift"}, set.ToSlice())
	assert.Nil(t, NewStringSet().ToSlice())
}

func TestStringSetJson(t *testing.T) {
	content, err := json.Marshal(NewStringSet())
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(content))

	content, err = json.Marshal(NewStringSet("b", "a"))
	assert.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(content))

	set := NewStringSet()
	assert.NoError(t, json.Unmarshal([]byte(`["x","x","y"]`), set))
	assert.Equal(t, 2, set.TotalStrings())
}

func TestNilStringSet(t *testing.T) {
	var set *StringSet
	assert.True(t, set.IsEmpty())
	assert.Equal(t, 0, set.TotalStrings())
}
