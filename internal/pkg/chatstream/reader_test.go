package chatstream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloStream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
	"data: [DONE]\n\n"

// chunkReader hands out one preset chunk per Read call.
type chunkReader struct {
	chunks []string
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func collectChunks(t *testing.T, chunks ...string) (string, *Reader) {
	t.Helper()
	r := NewReader(&chunkReader{chunks: chunks})
	var sb strings.Builder
	for r.Next() {
		sb.WriteString(r.Fragment())
	}
	require.NoError(t, r.Err())
	return sb.String(), r
}

func TestReader_SingleChunk(t *testing.T) {
	got, r := collectChunks(t, helloStream)
	assert.Equal(t, "Hello", got)
	assert.True(t, r.Done())
}

func TestReader_EverySplitOffset(t *testing.T) {
	for i := 1; i < len(helloStream); i++ {
		got, r := collectChunks(t, helloStream[:i], helloStream[i:])
		assert.Equal(t, "Hello", got, "split at %d", i)
		assert.True(t, r.Done(), "split at %d", i)
	}
}

func TestReader_OneByteReads(t *testing.T) {
	got, err := Collect(iotest.OneByteReader(strings.NewReader(helloStream)))
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestReader_MultiByteRuneSplit(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"💪 go\"}}]}\n\ndata: [DONE]\n\n"
	for i := 1; i < len(stream); i++ {
		got, _ := collectChunks(t, stream[:i], stream[i:])
		assert.Equal(t, "💪 go", got, "split at %d", i)
	}
}

func TestReader_CommentsAndBlankLinesIgnored(t *testing.T) {
	withComments := ": keep-alive\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\r\n\r\n" +
		": keep-alive\n\n" +
		"event: ping\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
		"data: [DONE]\n\n"

	plain, err := Collect(strings.NewReader(helloStream))
	require.NoError(t, err)
	got, err := Collect(strings.NewReader(withComments))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestReader_StopsAtSentinel(t *testing.T) {
	stream := helloStream + "data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n"
	got, r := collectChunks(t, stream)
	assert.Equal(t, "Hello", got)
	assert.True(t, r.Done())
}

func TestReader_EndsOnTransportEOFWithoutSentinel(t *testing.T) {
	got, r := collectChunks(t, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n")
	assert.Equal(t, "Hi", got)
	assert.False(t, r.Done())
}

func TestReader_FinalLineWithoutNewline(t *testing.T) {
	got, r := collectChunks(t,
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"!\"}}]}")
	assert.Equal(t, "Hi!", got)
	assert.False(t, r.Done())
}

func TestReader_MalformedLineRetriedOnceThenDropped(t *testing.T) {
	got, r := collectChunks(t,
		"data: {\"choices\":[{\"delta\"\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n",
		"data: [DONE]\n\n")
	assert.Equal(t, "ok", got)
	assert.True(t, r.Done())
}

func TestReader_EmptyReadDoesNotSpendRetry(t *testing.T) {
	r := NewReader(&chunkReader{chunks: []string{"data: {bad\n", "", helloStream}})

	r.fill()
	require.False(t, r.drainLines())
	require.Equal(t, "data: {bad", r.putBack)

	r.fill() // (0, nil)
	assert.False(t, r.drainLines())
	assert.Equal(t, "data: {bad", r.putBack)
	assert.True(t, strings.HasPrefix(string(r.buf), "data: {bad\n"))

	var sb strings.Builder
	for r.Next() {
		sb.WriteString(r.Fragment())
	}
	require.NoError(t, r.Err())
	assert.Equal(t, "Hello", sb.String())
	assert.True(t, r.Done())
}

func TestReader_MalformedLineAtEOFDropped(t *testing.T) {
	got, _ := collectChunks(t,
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n",
		"data: not-json\n")
	assert.Equal(t, "a", got)
}

func TestReader_EmptyDeltaSkipped(t *testing.T) {
	got, _ := collectChunks(t,
		"data: {\"choices\":[{\"delta\":{}}]}\n\n",
		"data: {\"choices\":[]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n")
	assert.Equal(t, "x", got)
}

func TestReader_ReadErrorSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	src := io.MultiReader(
		strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n"),
		iotest.ErrReader(boom),
	)
	r := NewReader(src)
	require.True(t, r.Next())
	assert.Equal(t, "a", r.Fragment())
	assert.False(t, r.Next())
	assert.ErrorIs(t, r.Err(), boom)
}
