// Package store manages the directory of generated restore scripts.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	perrors "github.com/timvw/tmux-persist/internal/errors"
)

const suffix = "-restore"

// Store reads and writes <Dir>/<session>-restore.<Ext> files.
type Store struct {
	Dir string
	Ext string
}

// Entry is a restore script found on disk.
type Entry struct {
	Session string
	Path    string
	ModTime time.Time
	Size    int64
}

// New creates a Store rooted at dir using the given file extension
// (without the leading dot).
func New(dir, ext string) *Store {
	return &Store{Dir: dir, Ext: strings.TrimPrefix(ext, ".")}
}

// fileEscaper makes session names safe as file names. The escape is
// reversible so distinct sessions never share a file.
var fileEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "\x00", "%00")

// FileName returns the script file name for a session. Path separators in
// the session name are percent-escaped so the file stays inside Dir.
func (s *Store) FileName(session string) string {
	return fileEscaper.Replace(session) + s.suffix()
}

// SessionName reverses FileName. It reports false for names that are not
// restore scripts of this store.
func (s *Store) SessionName(fileName string) (string, bool) {
	escaped, ok := strings.CutSuffix(fileName, s.suffix())
	if !ok {
		return "", false
	}
	session, err := url.PathUnescape(escaped)
	if err != nil {
		return escaped, true
	}
	return session, true
}

// Path returns the full path of a session's restore script.
func (s *Store) Path(session string) string {
	return filepath.Join(s.Dir, s.FileName(session))
}

func (s *Store) suffix() string {
	return suffix + "." + s.Ext
}

// scripts returns the restore script file names in Dir with their session
// names. A missing directory holds no scripts.
func (s *Store) scripts() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		session, ok := s.SessionName(de.Name())
		if !ok {
			continue
		}
		entries = append(entries, Entry{Session: session, Path: filepath.Join(s.Dir, de.Name())})
	}
	return entries, nil
}

// Clean removes every generated restore script from Dir. A missing
// directory is not an error. Removal continues past individual failures,
// which are returned joined.
func (s *Store) Clean() ([]string, error) {
	scripts, err := s.scripts()
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, e := range scripts {
		path := e.Path
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

// Write stores a session's restore script, replacing any previous one.
// The content is written to a temporary file and renamed into place.
func (s *Store) Write(session, content string) (string, error) {
	path := s.Path(session)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", perrors.Wrap(err, perrors.WriteFailure, "create %s", s.Dir)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+s.FileName(session)+".tmp-*")
	if err != nil {
		return "", perrors.Wrap(err, perrors.WriteFailure, "write %s", path)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", perrors.Wrap(err, perrors.WriteFailure, "write %s", path)
	}
	if err := tmp.Chmod(0o755); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", perrors.Wrap(err, perrors.WriteFailure, "chmod %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", perrors.Wrap(err, perrors.WriteFailure, "write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", perrors.Wrap(err, perrors.WriteFailure, "rename into %s", path)
	}
	return path, nil
}

// List returns the restore scripts in Dir sorted by session name.
func (s *Store) List() ([]Entry, error) {
	scripts, err := s.scripts()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(scripts))
	for _, e := range scripts {
		info, err := os.Stat(e.Path)
		if err != nil {
			continue
		}
		e.ModTime = info.ModTime()
		e.Size = info.Size()
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Session < entries[j].Session
	})
	return entries, nil
}

// Read returns the content of a session's restore script.
func (s *Store) Read(session string) (string, error) {
	data, err := os.ReadFile(s.Path(session))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
