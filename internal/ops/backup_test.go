package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := map[string]string{
		"hunters.txt":  "Aiden 3 60 0\nBea 1 45 0\n",
		"monsters.txt": "Jagras 1\nAnjanath 3\n",
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return files
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	files := writeRoster(t, src)

	archive := filepath.Join(t.TempDir(), "backups", "roster.tar.gz")
	m, err := Backup(src, archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"hunters.txt", "monsters.txt"}, m.Files)
	assert.NotEmpty(t, m.Digest)

	out := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, Restore(archive, out))
	for name, content := range files {
		b, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, content, string(b))
	}

	got, err := Digest(out)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, got)
}

func TestBackup_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunters.txt")
	require.NoError(t, os.WriteFile(path, []byte("x 1 1 0\n"), 0o644))

	_, err := Backup(path, filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     3,
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	assert.Error(t, Restore(archive, filepath.Join(t.TempDir(), "out")))
}

func TestDrill(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeRoster(t, src)
	work := t.TempDir()

	rep, err := Drill(src, work, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "monsterhunt-20260301T120000Z.tar.gz"), rep.Manifest.Archive)
	assert.DirExists(t, rep.RestoreDir)
	assert.FileExists(t, filepath.Join(rep.RestoreDir, "hunters.txt"))
}
