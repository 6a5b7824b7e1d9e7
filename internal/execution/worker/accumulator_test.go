package worker_test

import (
	"io"
	"strings"
	"testing"

	"github.com/lambda-feedback/harbor-shim/internal/execution/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_AppendsChunksInOrder(t *testing.T) {
	var acc worker.Accumulator

	for _, chunk := range []string{"ab", "cd", "", "ef"} {
		n, err := acc.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}

	assert.Equal(t, "abcdef", acc.String())
	assert.Equal(t, 6, acc.Len())
	assert.Equal(t, 4, acc.Chunks())
}

func TestAccumulator_BytesReturnsCopy(t *testing.T) {
	var acc worker.Accumulator

	_, _ = acc.Write([]byte("abc"))

	b := acc.Bytes()
	b[0] = 'x'

	assert.Equal(t, "abc", acc.String())
}

func TestAccumulator_KeepsInvalidUTF8Verbatim(t *testing.T) {
	var acc worker.Accumulator

	_, _ = acc.Write([]byte{0xff, 'a'})

	assert.Equal(t, []byte{0xff, 'a'}, acc.Bytes())
}

func TestAccumulator_ReadsFromStream(t *testing.T) {
	var acc worker.Accumulator

	_, err := io.Copy(&acc, strings.NewReader("streamed output"))
	require.NoError(t, err)

	assert.Equal(t, "streamed output", acc.String())
}
