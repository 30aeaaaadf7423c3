package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKeepsRecentWindow(t *testing.T) {
	s := NewStore(time.Hour, 4)

	s.Append("s1", "iphone 15", "iPhone 15 giá 22.990.000₫")
	s.Append("s1", "màu gì", "")
	s.Append("s1", "còn hàng không", "Còn hàng ạ")

	got := s.Recent("s1")
	require.Len(t, got, 4)
	assert.Equal(t, "màu gì", got[1].Content)
	assert.Equal(t, "assistant", got[3].Role)

	assert.Empty(t, s.Recent("other"))

	s.Delete("s1")
	assert.Empty(t, s.Recent("s1"))
}

func TestRecentIsACopy(t *testing.T) {
	s := NewStore(time.Hour, 10)
	s.Append("s1", "hello", "chào bạn")

	got := s.Recent("s1")
	got[0].Content = "changed"
	assert.Equal(t, "hello", s.Recent("s1")[0].Content)
}
