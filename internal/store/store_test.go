package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/timvw/tmux-persist/internal/errors"
)

func TestPath(t *testing.T) {
	s := New("/out", ".sh")

	assert.Equal(t, "/out/dev-restore.sh", s.Path("dev"))
	assert.Equal(t, "/out/my work-restore.sh", s.Path("my work"))
	assert.Equal(t, "/out/a%2Fb-restore.sh", s.Path("a/b"))
	assert.Equal(t, "/out/100%25-restore.sh", s.Path("100%"))
}

func TestFileName_DistinctSessionsDoNotCollide(t *testing.T) {
	s := New(t.TempDir(), "sh")

	names := []string{"a/b", "a_b", "a%2Fb"}
	seen := map[string]string{}
	for _, name := range names {
		file := s.FileName(name)
		if other, dup := seen[file]; dup {
			t.Fatalf("%q and %q both map to %s", other, name, file)
		}
		seen[file] = name

		got, ok := s.SessionName(file)
		require.True(t, ok)
		assert.Equal(t, name, got)

		_, err := s.Write(name, "#!/bin/sh\n# "+name+"\n")
		require.NoError(t, err)
	}

	entries, err := s.List()
	require.NoError(t, err)
	var sessions []string
	for _, e := range entries {
		sessions = append(sessions, e.Session)
	}
	assert.ElementsMatch(t, names, sessions)

	got, err := s.Read("a/b")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n# a/b\n", got)
}

func TestSessionName_RejectsOtherFiles(t *testing.T) {
	s := New("/out", "sh")
	for _, name := range []string{"notes.txt", "dev-restore.zsh", ".dev-restore.sh.tmp-123"} {
		_, ok := s.SessionName(name)
		assert.False(t, ok, name)
	}
}

func TestWriteAndRead(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "dir"), "sh")

	path, err := s.Write("dev", "#!/bin/sh\necho one\n")
	require.NoError(t, err)
	assert.Equal(t, s.Path("dev"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	_, err = s.Write("dev", "#!/bin/sh\necho two\n")
	require.NoError(t, err)

	got, err := s.Read("dev")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho two\n", got)

	// No temporary files are left behind.
	files, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestWrite_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(filepath.Join(blocker, "sub"), "sh")
	_, err := s.Write("dev", "content")
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.WriteFailure), "got %v", err)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "sh")

	for _, name := range []string{"old-restore.sh", "dev-restore.sh", "notes.txt", "dev-restore.zsh"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := s.Clean()
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{"notes.txt", "dev-restore.zsh"}, names)
}

func TestClean_DirWithPatternCharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "[logs] *?")
	s := New(dir, "sh")
	_, err := s.Write("old", "x")
	require.NoError(t, err)

	removed, err := s.Clean()
	require.NoError(t, err)
	assert.Equal(t, []string{s.Path("old")}, removed)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClean_MissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"), "sh")

	removed, err := s.Clean()
	assert.NoError(t, err)
	assert.Empty(t, removed)
}

func TestList(t *testing.T) {
	s := New(t.TempDir(), "sh")

	for _, name := range []string{"zeta", "alpha", "my work"} {
		_, err := s.Write(name, "#!/bin/sh\n")
		require.NoError(t, err)
	}

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Session)
	assert.Equal(t, "my work", entries[1].Session)
	assert.Equal(t, "zeta", entries[2].Session)
	assert.Equal(t, int64(len("#!/bin/sh\n")), entries[0].Size)
}
