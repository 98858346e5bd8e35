package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots(t *testing.T) {
	t.Run("append fills left to right", func(t *testing.T) {
		s := NewSlots[string](3)
		assert.Equal(t, 0, s.Append("a"))
		assert.Equal(t, 1, s.Append("b"))
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 3, s.Cap())
		assert.False(t, s.Full())
		assert.Equal(t, []string{"a", "b"}, s.Values())
	})

	t.Run("append to full collection", func(t *testing.T) {
		s := NewSlots[int](1)
		require.Equal(t, 0, s.Append(7))
		assert.True(t, s.Full())
		assert.Equal(t, -1, s.Append(8))
		assert.Equal(t, []int{7}, s.Values())
	})

	t.Run("zero values are occupied", func(t *testing.T) {
		s := NewSlots[int](2)
		s.Append(0)
		v, ok := s.At(0)
		assert.True(t, ok)
		assert.Equal(t, 0, v)
		_, ok = s.At(1)
		assert.False(t, ok)
	})

	t.Run("replace only occupied slots", func(t *testing.T) {
		s := NewSlots[string](2)
		s.Append("a")
		assert.True(t, s.Replace(0, "z"))
		assert.False(t, s.Replace(1, "y"))
		assert.False(t, s.Replace(5, "y"))
		assert.Equal(t, []string{"z"}, s.Values())
	})

	t.Run("index and each", func(t *testing.T) {
		s := NewSlots[string](3)
		s.Append("a")
		s.Append("b")
		assert.Equal(t, 1, s.IndexFunc(func(v string) bool { return v == "b" }))
		assert.Equal(t, -1, s.IndexFunc(func(v string) bool { return v == "c" }))

		var occupied []bool
		s.Each(func(_ int, _ string, ok bool) { occupied = append(occupied, ok) })
		assert.Equal(t, []bool{true, true, false}, occupied)
	})

	t.Run("negative capacity", func(t *testing.T) {
		s := NewSlots[int](-4)
		assert.Equal(t, 0, s.Cap())
		assert.Equal(t, -1, s.Append(1))
	})
}
