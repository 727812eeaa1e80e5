package raw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	lines := []string{
		"i+sw2005_0001+1 know+sw2005_0001+2",
		"yeah+sw2005_0002+1",
		"okay+sw2005_0003+1",
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lines))

	read, err := Read(bytes.NewReader(buf.Bytes()), 0)
	require.NoError(t, err)
	assert.Equal(t, lines, read)

	limited, err := Read(bytes.NewReader(buf.Bytes()), 2)
	require.NoError(t, err)
	assert.Equal(t, lines[:2], limited)
}
