// Package fsutil provides small filesystem helpers: JSON/YAML file IO,
// atomic writes, backups, symlinks, and glob listings.
package fsutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Exists reports whether path exists, regardless of type.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadJSON reads the file at path and unmarshals it into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// WriteJSON marshals v as indented JSON and writes it atomically,
// creating parent directories as needed. The output ends with a
// trailing newline.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	return WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// ReadYAML reads the file at path and unmarshals it into v.
func ReadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// WriteYAML marshals v as YAML and writes it atomically, creating
// parent directories as needed.
func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	return WriteFileAtomic(path, data, 0o644)
}

// WriteFileAtomic writes data to path via a temporary sibling file and
// rename, so readers never observe a partial write. Parent directories
// are created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}

// Backup copies a regular file to a sibling named path+suffix and
// returns the backup path. An empty suffix selects a UTC-timestamped
// default, e.g. "file.txt" -> "file.txt.2023-10-27_10-30-00.bak".
func Backup(path, suffix string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("backup source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("backup source is not a regular file: %s", path)
	}

	if suffix == "" {
		suffix = "." + time.Now().UTC().Format("2006-01-02_15-04-05") + ".bak"
	}

	dst := path + suffix
	if err := CopyFile(path, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// CopyFile copies src to dst, preserving the source file mode.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	return nil
}

// Symlink creates a symbolic link at link pointing to the absolute path
// of target. The target must exist. An existing file or link at the
// link path is an error unless overwrite is set, in which case it is
// removed first.
func Symlink(target, link string, overwrite bool) error {
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("symlink target: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}

	// Lstat so a dangling symlink at the link path is still detected.
	if _, err := os.Lstat(link); err == nil {
		if !overwrite {
			return fmt.Errorf("link path already exists: %s", link)
		}
		if err := os.RemoveAll(link); err != nil {
			return fmt.Errorf("remove existing link: %w", err)
		}
	}

	if err := os.Symlink(abs, link); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	return nil
}

// ListFiles returns the files (not directories) under dir matching the
// glob pattern. Patterns support doublestar syntax, so "**/*.sh"
// matches recursively. An empty pattern lists the directory itself.
func ListFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	return matches, nil
}

// Contains reports whether the file at path contains text.
func Contains(path, text string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	return strings.Contains(string(data), text), nil
}

// RandomLine returns a uniformly random line from the file at path
// using reservoir sampling, without loading the whole file. An empty
// file yields an empty string.
func RandomLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var line string
	n := 0

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
		if rand.IntN(n) == 0 {
			line = sc.Text()
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return line, nil
}

// TempFile creates an empty temporary file with the given name prefix
// and suffix and returns its path. The caller owns the file's
// lifecycle.
func TempFile(prefix, suffix string) (string, error) {
	f, err := os.CreateTemp("", prefix+"*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	path := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return path, nil
}
