package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSetAdd tests adding items to a set
func TestSetAdd(t *testing.T) {
	set := NewSet[int]()
	assert.True(t, set.Add(1))
	assert.True(t, set.Add(2))
	assert.True(t, set.Add(3))

	assert.Equal(t, 3, set.Size())
	assert.True(t, set.Contains(1))
	assert.True(t, set.Contains(2))
	assert.True(t, set.Contains(3))
	assert.False(t, set.Contains(4))
}

// TestSetAddDuplicate tests that adding duplicate items doesn't increase size
func TestSetAddDuplicate(t *testing.T) {
	set := NewSet[string]()
	set.Add("09:00")
	assert.False(t, set.Add("09:00"))

	assert.Equal(t, 1, set.Size())
	assert.True(t, set.Contains("09:00"))
}

// TestSetRemoveKeepsOrder tests that removal re-indexes the remaining items
func TestSetRemoveKeepsOrder(t *testing.T) {
	set := NewSet("a", "b", "c", "d")

	assert.True(t, set.Remove("b"))
	assert.Equal(t, []string{"a", "c", "d"}, set.ToSlice())

	assert.True(t, set.Remove("d"))
	assert.True(t, set.Remove("a"))
	assert.Equal(t, []string{"c"}, set.ToSlice())
	assert.True(t, set.Contains("c"))
}

// TestSetRemoveNonExistent tests removing an item that doesn't exist
func TestSetRemoveNonExistent(t *testing.T) {
	set := NewSet(1)

	assert.False(t, set.Remove(2))

	assert.Equal(t, 1, set.Size())
	assert.True(t, set.Contains(1))
}

// TestSetToSliceInsertionOrder tests that ToSlice keeps first-seen order
func TestSetToSliceInsertionOrder(t *testing.T) {
	set := NewSet(".pdf", ".doc", ".pdf", ".docx", ".doc")

	assert.Equal(t, []string{".pdf", ".doc", ".docx"}, set.ToSlice())
}

// TestSetToSliceEmpty tests converting an empty set to a slice
func TestSetToSliceEmpty(t *testing.T) {
	set := NewSet[string]()

	slice := set.ToSlice()

	assert.Equal(t, 0, len(slice))
	assert.NotNil(t, slice)
}

// TestSetToSliceIsACopy tests that callers cannot mutate the set through ToSlice
func TestSetToSliceIsACopy(t *testing.T) {
	set := NewSet("x", "y")
	slice := set.ToSlice()
	slice[0] = "z"

	assert.True(t, set.Contains("x"))
	assert.Equal(t, []string{"x", "y"}, set.ToSlice())
}

// TestUnique tests de-duplication helper
func TestUnique(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Unique([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []string{}, Unique[string](nil))
}
