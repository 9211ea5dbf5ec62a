package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestQuality(t *testing.T) {
	out, err := execute(t, "quality", "1", "5", "15", "30")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"1", "0", "unreachable", "0"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"5", "1", "6", "2"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"15", "2", "2", "10"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"30", "3", "1", "20"}, strings.Fields(lines[4]))

	_, err = execute(t, "quality", "loud")
	assert.Error(t, err)
}

func TestNewThenVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	_, err := execute(t, "new", "7", "-o", path, "--link-age", "30s")
	require.NoError(t, err)

	_, err = execute(t, "new", "7", "-o", path)
	assert.ErrorContains(t, err, "already exists")

	out, err := execute(t, "verify", "-n", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config is valid")
	assert.Contains(t, out, "id: 7")
	assert.Contains(t, out, "link_age:")
}

func TestNewRejectsBadId(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	_, err := execute(t, "new", "70", "-o", path)
	assert.ErrorContains(t, err, "maximum router id")
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	sc := filepath.Join(dir, "sc.yaml")
	require.NoError(t, os.WriteFile(sc, []byte(`
events:
  - op: rid_set
    ids: [1, 2, 4]
  - op: link_add
    router: 2
    margin: 15
    outgoing: 2
  - op: advertise
    sender: 2
    dest: 4
    cost: 3
  - op: leader_data
    partition_id: 7
    leader: 4
`), 0600))

	out, err := execute(t, "replay", sc, "-n", filepath.Join(dir, "none.yaml"), "--id", "1", "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "ROUTE_ADDED")
	assert.Contains(t, out, "Route Set (1/32)")
	assert.Contains(t, out, "Leader cost: 5")
}
