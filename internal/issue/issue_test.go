// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique and sequential
	ids := []Id{
		BakefileNotFoundId,
		BakefileParseErrorId,
		ContainerEngineNotFoundId,
		BaseImageUnavailableId,
		LockfileMissingId,
		LockfileStaleId,
		SourceTreeMissingId,
		LaunchFailedId,
		ConfigLoadFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if BakefileNotFoundId != 1 {
		t.Errorf("BakefileNotFoundId = %d, want 1", BakefileNotFoundId)
	}
}

func TestGet_AllIdsRegistered(t *testing.T) {
	ids := []Id{
		BakefileNotFoundId,
		BakefileParseErrorId,
		ContainerEngineNotFoundId,
		BaseImageUnavailableId,
		LockfileMissingId,
		LockfileStaleId,
		SourceTreeMissingId,
		LaunchFailedId,
		ConfigLoadFailedId,
	}

	for _, id := range ids {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("issue.Id() = %d, want %d", issue.Id(), id)
		}
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown message", id)
		}
	}
}

func TestValues_MatchesCatalog(t *testing.T) {
	if got := len(Values()); got != 9 {
		t.Errorf("len(Values()) = %d, want 9", got)
	}
}

func TestIssue_Render(t *testing.T) {
	// Stub the renderer so the test doesn't depend on terminal detection.
	orig := render
	render = func(in, _ string) (string, error) { return in, nil }
	defer func() { render = orig }()

	issue := Get(LockfileStaleId)
	out, err := issue.Render("auto")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Lockfile does not cover the manifest") {
		t.Errorf("rendered output missing heading: %q", out)
	}
}
