package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedFragmentationIndependence(t *testing.T) {
	raw := []byte("GET /rest/auth/1/session HTTP/1.1\r\n" +
		"Host: localhost:8080\r\n" +
		"Set-Cookie: a=1\r\n" +
		"Set-Cookie: b=2\r\n" +
		"\r\nBODY")

	tests := []struct {
		name      string
		chunkSize int
	}{
		{name: "one byte at a time", chunkSize: 1},
		{name: "two bytes", chunkSize: 2},
		{name: "seven bytes", chunkSize: 7},
		{name: "all at once", chunkSize: len(raw)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest()
			for i := 0; i < len(raw); i += tt.chunkSize {
				end := i + tt.chunkSize
				if end > len(raw) {
					end = len(raw)
				}
				_, err := req.Feed(raw[i:end])
				assert.NoError(t, err)
			}

			assert.True(t, req.HeadersRead())
			assert.Equal(t, "GET /rest/auth/1/session HTTP/1.1", req.StartLine())
			assert.Equal(t, "BODY", string(req.Body()))
			assert.Equal(t, 3, req.Headers().Len())

			host, ok := req.Headers().Value("Host")
			assert.True(t, ok)
			assert.Equal(t, "localhost:8080", host)
		})
	}
}

func TestFeedTransitionIsOneShot(t *testing.T) {
	req := NewRequest()

	complete, err := req.Feed([]byte("GET / HTTP/1.1\r\nHost: a\r\n\r\nfirst"))
	assert.NoError(t, err)
	assert.True(t, complete)
	assert.True(t, req.HeadersRead())
	assert.Equal(t, 1, req.Headers().Len())

	// Further feeds extend the body only, even when the bytes look like
	// a header block.
	complete, err = req.Feed([]byte("\r\nX-Header: injected\r\n\r\n"))
	assert.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, 1, req.Headers().Len())
	assert.Equal(t, "first\r\nX-Header: injected\r\n\r\n", string(req.Body()))
}

func TestFeedIncompleteHeaders(t *testing.T) {
	req := NewRequest()

	complete, err := req.Feed([]byte("GET / HTTP/1.1\r\nHost: exa"))
	assert.NoError(t, err)
	assert.False(t, complete)
	assert.False(t, req.HeadersRead())
	assert.Nil(t, req.Body())
}

func TestContinuationLineJoinsPreviousField(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\n" +
		"X-Long: first\r\n" +
		"   part-two  \r\n" +
		"\tpart-three\r\n" +
		"Host: a\r\n" +
		"\r\n"))
	assert.NoError(t, err)

	val, ok := req.Headers().Value("X-Long")
	assert.True(t, ok)
	assert.Equal(t, "firstpart-twopart-three", val)
	assert.NotContains(t, val, "\n")
}

func TestContinuationWithoutPrecedingFieldIsFatal(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\n  orphan\r\n\r\n"))
	assert.ErrorIs(t, err, ErrOrphanContinuation)
}

func TestMalformedHeaderLineIsFatal(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "no colon", line: "NotAHeader"},
		{name: "empty name", line: ": value"},
		{name: "invalid name character", line: "Bad Header: value"},
		{name: "underscore in name", line: "bad_name: value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest()
			_, err := req.Feed([]byte("GET / HTTP/1.1\r\n" + tt.line + "\r\n\r\n"))
			assert.ErrorIs(t, err, ErrMalformedHeaderLine)
		})
	}
}

func TestHeaderValueTrimming(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\nX-Padded:    spaced value \t\r\n\r\n"))
	assert.NoError(t, err)

	val, ok := req.Headers().Value("X-Padded")
	assert.True(t, ok)
	assert.Equal(t, "spaced value", val)
}

func TestTerminatorConsumedFromBody(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\nHost: a\r\n\r\n"))
	assert.NoError(t, err)
	assert.Empty(t, req.Body())

	_, err = req.Feed([]byte("tail"))
	assert.NoError(t, err)
	assert.Equal(t, "tail", string(req.Body()))
}

func TestSerializeCanonicalForm(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET /a HTTP/1.1\r\nHost: example.com\r\n\r\npartial body"))
	assert.NoError(t, err)

	assert.Equal(t,
		"GET /a HTTP/1.1\r\nHost: example.com\r\n\r\npartial body",
		string(req.Serialize()))
}

func TestSerializeAfterHeaderMutation(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET /a HTTP/1.1\r\nHost: old\r\nSet-Cookie: x=1\r\n\r\n"))
	assert.NoError(t, err)

	req.Headers().Replace("Host", "new")
	req.Headers().Remove("Set-Cookie")

	assert.Equal(t, "GET /a HTTP/1.1\r\nHost: new\r\n\r\n", string(req.Serialize()))
}

func TestMaxHeaderSizeExceeded(t *testing.T) {
	req := NewRequestSize(64)

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\n"))
	assert.NoError(t, err)

	chunk := []byte("X-Filler: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\r\n")
	_, err = req.Feed(chunk)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestMaxHeaderSizeExceededWithTerminator(t *testing.T) {
	req := NewRequestSize(64)

	raw := "GET / HTTP/1.1\r\nX-Filler: " + strings.Repeat("a", 80) + "\r\n\r\n"
	_, err := req.Feed([]byte(raw))
	assert.ErrorIs(t, err, ErrHeaderTooLarge, "the terminator does not lift the bound")
}

func TestParseRoundTripWithContinuation(t *testing.T) {
	req := NewRequest()

	_, err := req.Feed([]byte("GET / HTTP/1.1\r\n" +
		"X-Folded: one\r\n" +
		" two\r\n" +
		"\r\n"))
	assert.NoError(t, err)

	// Folding is collapsed, so the canonical form differs from the
	// input bytes but parses to an equivalent message.
	again := NewRequest()
	_, err = again.Feed(req.Serialize())
	assert.NoError(t, err)

	want, _ := req.Headers().Value("X-Folded")
	got, ok := again.Headers().Value("X-Folded")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
