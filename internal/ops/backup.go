// Package ops archives and restores a roster data directory.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Manifest describes one archive written by Backup.
type Manifest struct {
	Archive string   `json:"archive"`
	Files   []string `json:"files"`
	Digest  string   `json:"digest"`
}

// DefaultArchivePath names a timestamped archive under dir.
func DefaultArchivePath(dir string, now time.Time) string {
	return filepath.Join(dir, "monsterhunt-"+now.UTC().Format("20060102T150405Z")+".tar.gz")
}

// Backup writes every regular file under dataDir to a gzip'd tarball.
// Symlinks are skipped.
func Backup(dataDir, archivePath string) (Manifest, error) {
	if strings.TrimSpace(dataDir) == "" || strings.TrimSpace(archivePath) == "" {
		return Manifest{}, errors.New("data dir and archive path are required")
	}
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	info, err := os.Stat(dataDir)
	if err != nil {
		return Manifest{}, err
	}
	if !info.IsDir() {
		return Manifest{}, fmt.Errorf("not a directory: %s", dataDir)
	}
	files, err := regularFiles(dataDir)
	if err != nil {
		return Manifest{}, err
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	werr := writeFiles(tw, dataDir, files)
	if err := tw.Close(); werr == nil {
		werr = err
	}
	if err := gz.Close(); werr == nil {
		werr = err
	}
	if err := f.Close(); werr == nil {
		werr = err
	}
	if werr != nil {
		return Manifest{}, werr
	}

	digest, err := Digest(dataDir)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Archive: archivePath, Files: files, Digest: digest}, nil
}

func writeFiles(tw *tar.Writer, root string, files []string) error {
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, src)
		_ = src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Restore unpacks archivePath into targetDir. Entries that would land outside
// targetDir are rejected.
func Restore(archivePath, targetDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := entryPath(hdr.Name)
		if err != nil {
			return err
		}
		out := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			dst, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(dst, tr); err != nil {
				_ = dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
		}
	}
}

// DrillReport is the result of a backup followed by a restore.
type DrillReport struct {
	Manifest   Manifest `json:"manifest"`
	RestoreDir string   `json:"restore_dir"`
}

// Drill backs dataDir up into workDir, restores the archive next to it and
// checks the restored copy hashes the same as the source.
func Drill(dataDir, workDir string, now time.Time) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	archive := DefaultArchivePath(workDir, now)
	restoreDir := strings.TrimSuffix(archive, ".tar.gz") + "-restore"

	m, err := Backup(dataDir, archive)
	if err != nil {
		return DrillReport{}, fmt.Errorf("backup: %w", err)
	}
	if err := Restore(archive, restoreDir); err != nil {
		return DrillReport{}, fmt.Errorf("restore: %w", err)
	}
	got, err := Digest(restoreDir)
	if err != nil {
		return DrillReport{}, err
	}
	if got != m.Digest {
		return DrillReport{}, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", m.Digest, got)
	}
	return DrillReport{Manifest: m, RestoreDir: restoreDir}, nil
}

// Digest hashes the names and contents of every regular file under root.
func Digest(root string) (string, error) {
	root = filepath.Clean(root)
	files, err := regularFiles(root)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, rel := range files {
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, rel+"\n")
		_, _ = h.Write(b)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// regularFiles lists slash-separated paths relative to root, sorted.
func regularFiles(root string) ([]string, error) {
	out := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func entryPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	switch {
	case name == "." || name == "":
		return "", errors.New("empty archive entry path")
	case filepath.IsAbs(name):
		return "", fmt.Errorf("absolute archive entry path: %s", name)
	case name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)):
		return "", fmt.Errorf("archive entry escapes target: %s", name)
	}
	return name, nil
}
