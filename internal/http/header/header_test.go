package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddKeepsDuplicatesAndOrder(t *testing.T) {
	fs := New()
	fs.Add("Set-Cookie", "a=1")
	fs.Add("Content-Type", "text/html")
	fs.Add("Set-Cookie", "b=2")

	assert.Equal(t, 3, fs.Len())

	val, ok := fs.Value("Set-Cookie")
	assert.True(t, ok)
	assert.Equal(t, "a=1", val, "Value must return the first match")

	assert.Equal(t, "Set-Cookie: a=1\r\nContent-Type: text/html\r\nSet-Cookie: b=2\r\n",
		string(fs.Serialize()))
}

func TestValueAbsent(t *testing.T) {
	fs := New()
	fs.Add("Host", "example.com")

	_, ok := fs.Value("host")
	assert.False(t, ok, "matching is exact-name, no case folding")

	_, ok = fs.Value("Missing")
	assert.False(t, ok)
}

func TestRemoveDeletesAllMatches(t *testing.T) {
	fs := New()
	fs.Add("Set-Cookie", "a=1")
	fs.Add("Host", "example.com")
	fs.Add("Set-Cookie", "b=2")

	fs.Remove("Set-Cookie")

	assert.Equal(t, 1, fs.Len())
	_, ok := fs.Value("Set-Cookie")
	assert.False(t, ok)

	val, ok := fs.Value("Host")
	assert.True(t, ok)
	assert.Equal(t, "example.com", val)
}

func TestReplaceCollapsesDuplicates(t *testing.T) {
	fs := New()
	fs.Add("Connection", "keep-alive")
	fs.Add("Connection", "upgrade")

	fs.Replace("Connection", "close")

	val, ok := fs.Value("Connection")
	assert.True(t, ok)
	assert.Equal(t, "close", val)

	count := 0
	for f := range fs.All() {
		if f.Name() == "Connection" {
			count++
		}
	}
	assert.Equal(t, 1, count, "no duplicate trace beyond the one field")
}

func TestAllIsRestartableAndLive(t *testing.T) {
	fs := New()
	fs.Add("Set-Cookie", "a=1")
	fs.Add("Set-Cookie", "b=2")

	seq := fs.All()

	first := make([]string, 0, 2)
	for f := range seq {
		first = append(first, f.Value)
	}
	assert.Equal(t, []string{"a=1", "b=2"}, first)

	for f := range seq {
		f.Value = "redacted"
	}

	second := make([]string, 0, 2)
	for f := range seq {
		second = append(second, f.Value)
	}
	assert.Equal(t, []string{"redacted", "redacted"}, second)
}

func TestAllEarlyStop(t *testing.T) {
	fs := New()
	fs.Add("A", "1")
	fs.Add("B", "2")
	fs.Add("C", "3")

	seen := 0
	for range fs.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestLast(t *testing.T) {
	fs := New()
	assert.Nil(t, fs.Last())

	fs.Add("Host", "example.com")
	fs.Add("Accept", "*/*")

	last := fs.Last()
	assert.NotNil(t, last)
	assert.Equal(t, "Accept", last.Name())
}

func TestSerializeEmpty(t *testing.T) {
	fs := New()
	assert.Empty(t, fs.Serialize())
}
