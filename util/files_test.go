package util

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoNLLStats(t *testing.T) {
	content := "# sent_id = sw2005_0001_t1_A\n1\ta\t_\tX\tX\t_\t0\troot\t_\t_\n2\tb\t_\tX\tX\t_\t1\tdep\t_\t_\n\n" +
		"1\tc\t_\tX\tX\t_\t0\troot\t_\t_\n\n"
	path := filepath.Join(t.TempDir(), "en_nxt-dev.conllu")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stats, err := CoNLLStats(path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sentences)
	assert.Equal(t, 3, stats.Tokens)
	assert.Equal(t, fmt.Sprintf("%x", md5.Sum([]byte(content))), stats.MD5)

	_, err = CoNLLStats(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
