package archives

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	ErrUnsafePath     = errors.New("archive entry escapes destination")
	ErrInvalidArchive = errors.New("invalid zip archive")
	ErrNotDirectory   = errors.New("source is not a directory")
)

// Stats summarises an archive operation.
type Stats struct {
	Files int
	Bytes int64 // uncompressed bytes
}

// Compress writes every file and directory under srcDir into w as a zip archive.
// Entries are stored relative to srcDir (no base directory) using Deflate. Symlinks and
// other non-regular files are skipped.
func Compress(ctx context.Context, srcDir string, w io.Writer) (*Stats, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, srcDir)
	}

	zw := zip.NewWriter(w)
	stats := &Stats{}

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(fileInfo)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		n, err := copyFile(entry, path)
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return nil, walkErr
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Extract unpacks the zip archive at archivePath into destDir, creating it if needed.
// Any entry whose path would land outside destDir fails the whole extraction with ErrUnsafePath
// before anything is written.
func Extract(ctx context.Context, archivePath, destDir string) (*Stats, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil && reader == nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}
		return nil, err
	}
	// a reader returned alongside an error flags insecure entry names; safeJoin rejects them below
	defer reader.Close()

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, err
	}

	targets := make([]string, len(reader.File))
	for i, f := range reader.File {
		target, err := safeJoin(absDest, f.Name)
		if err != nil {
			return nil, err
		}
		targets[i] = target
	}

	if err := os.MkdirAll(absDest, 0755); err != nil {
		return nil, err
	}

	stats := &Stats{}
	for i, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := targets[i]

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, err
			}
			continue
		}

		n, err := extractFile(f, target)
		if err != nil {
			if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrAlgorithm) {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArchive, f.Name, err)
			}
			return nil, err
		}
		stats.Files++
		stats.Bytes += n
	}

	return stats, nil
}

// ClearDir removes everything inside dir but keeps dir itself.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0755)
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func safeJoin(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}

	src, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func copyFile(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}
