// SPDX-License-Identifier: MPL-2.0

package poetry

import (
	"errors"
	"path/filepath"
	"testing"
)

const sampleLock = `
[[package]]
name = "streamlit"
version = "1.31.0"
description = "A faster way to build and share data apps"
files = [
    {file = "streamlit-1.31.0-py2.py3-none-any.whl", hash = "sha256:aaaa"},
    {file = "streamlit-1.31.0.tar.gz", hash = "sha256:bbbb"},
]

[[package]]
name = "requests"
version = "2.31.0"
files = [
    {file = "requests-2.31.0-py3-none-any.whl", hash = "sha256:cccc"},
]

[[package]]
name = "pandas"
version = "2.2.0"
files = []

[metadata]
lock-version = "2.0"
python-versions = "^3.11"
content-hash = "deadbeef"
`

func TestParseLockfile(t *testing.T) {
	t.Parallel()

	lf, err := ParseLockfile([]byte(sampleLock))
	if err != nil {
		t.Fatalf("ParseLockfile() error: %v", err)
	}

	if len(lf.Packages) != 3 {
		t.Fatalf("Packages = %d, want 3", len(lf.Packages))
	}
	if lf.LockVersion != "2.0" {
		t.Errorf("LockVersion = %q, want %q", lf.LockVersion, "2.0")
	}
	if lf.ContentHash != "deadbeef" {
		t.Errorf("ContentHash = %q, want %q", lf.ContentHash, "deadbeef")
	}

	streamlit := lf.Lookup("streamlit")
	if len(streamlit) != 1 {
		t.Fatalf("Lookup(streamlit) = %d entries, want 1", len(streamlit))
	}
	if streamlit[0].Version != "1.31.0" {
		t.Errorf("streamlit version = %q, want %q", streamlit[0].Version, "1.31.0")
	}
	if len(streamlit[0].Hashes) != 2 {
		t.Errorf("streamlit hashes = %d, want 2", len(streamlit[0].Hashes))
	}
}

func TestLookup_NormalizesNames(t *testing.T) {
	t.Parallel()

	lf, err := ParseLockfile([]byte(sampleLock))
	if err != nil {
		t.Fatal(err)
	}

	if got := lf.Lookup("Pandas"); len(got) != 1 {
		t.Errorf("Lookup(Pandas) = %d entries, want 1", len(got))
	}
	if got := lf.Lookup("absent"); got != nil {
		t.Errorf("Lookup(absent) = %v, want nil", got)
	}
}

func TestParseLockfile_MissingVersion(t *testing.T) {
	t.Parallel()

	bad := `
[[package]]
name = "streamlit"
`
	_, err := ParseLockfile([]byte(bad))
	if !errors.Is(err, ErrLockfileInvalid) {
		t.Errorf("expected ErrLockfileInvalid, got %v", err)
	}
}

func TestLoadLockfile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadLockfile(filepath.Join(t.TempDir(), "poetry.lock"))
	if !errors.Is(err, ErrLockfileMissing) {
		t.Errorf("expected ErrLockfileMissing, got %v", err)
	}
}
