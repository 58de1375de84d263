package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const archiveStampLayout = "20060102_150405"

type Archiver interface {
	// Archive moves the file at path out of the raw folder and returns its
	// new location.
	Archive(ctx context.Context, path string) (string, error)
}

// FolderArchiver moves imported files into a processed folder. A name that is
// already taken gets a timestamp suffix.
type FolderArchiver struct {
	dir string
	now func() time.Time
}

func NewFolderArchiver(dir string) *FolderArchiver {
	return &FolderArchiver{dir: dir, now: time.Now}
}

func (a *FolderArchiver) Archive(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if a.dir == "" {
		return "", errors.New("processed folder is not configured")
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create processed folder: %w", err)
	}

	name := filepath.Base(path)
	target := filepath.Join(a.dir, name)
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		target = filepath.Join(a.dir, fmt.Sprintf("%s_%s%s", stem, a.now().Format(archiveStampLayout), ext))
	}

	if err := os.Rename(path, target); err != nil {
		// Rename fails across devices; fall back to copy and remove.
		if cerr := copyFile(path, target); cerr != nil {
			return "", errors.Join(err, cerr)
		}
		if rerr := os.Remove(path); rerr != nil {
			return target, fmt.Errorf("remove archived source: %w", rerr)
		}
	}
	return target, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
