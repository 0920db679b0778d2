// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"bakery-cli/internal/container"
	"bakery-cli/pkg/bakefile"
	"bakery-cli/pkg/poetry"
)

// mockEngine implements container.Engine for testing pipeline logic
// without requiring real Docker/Podman. It records every call in order so
// tests can assert the pipeline's hard barriers.
type mockEngine struct {
	// imageExistsResult controls what ImageExists returns
	imageExistsResult bool
	// imageExistsErr controls the error ImageExists returns
	imageExistsErr error
	// buildErr controls the error Build returns
	buildErr error
	// pullErr controls the error Pull returns
	pullErr error
	// pullFailures makes the first N Pull calls fail transiently before
	// pullErr (usually nil) takes over
	pullFailures int

	// calls records every engine method invocation in order
	calls []string
	// buildCalls records Build invocations for assertion
	buildCalls []container.BuildOptions
	// pullCalls records Pull invocations
	pullCalls []container.ImageTag
	// imageExistsCalls records ImageExists invocations
	imageExistsCalls []string
	// dockerfiles records the Dockerfile content present in the build
	// context at Build time (the context dir is cleaned up after Run)
	dockerfiles []string
}

func newMockEngine() *mockEngine {
	return &mockEngine{}
}

func (m *mockEngine) Name() string    { return "mock" }
func (m *mockEngine) Available() bool { return true }

func (m *mockEngine) Version(_ context.Context) (string, error) {
	return "mock-1.0.0", nil
}

func (m *mockEngine) Build(_ context.Context, opts container.BuildOptions) error {
	m.calls = append(m.calls, "Build")
	m.buildCalls = append(m.buildCalls, opts)
	data, err := os.ReadFile(filepath.Join(opts.ContextDir, opts.Dockerfile))
	if err == nil {
		m.dockerfiles = append(m.dockerfiles, string(data))
	}
	return m.buildErr
}

func (m *mockEngine) Pull(_ context.Context, image container.ImageTag) error {
	m.calls = append(m.calls, "Pull")
	m.pullCalls = append(m.pullCalls, image)
	if m.pullFailures > 0 {
		m.pullFailures--
		return errors.New("registry timeout")
	}
	return m.pullErr
}

func (m *mockEngine) Run(_ context.Context, _ container.RunOptions) (*container.RunResult, error) {
	m.calls = append(m.calls, "Run")
	return &container.RunResult{}, nil
}

func (m *mockEngine) Remove(_ context.Context, _ container.ContainerID, _ bool) error {
	m.calls = append(m.calls, "Remove")
	return nil
}

func (m *mockEngine) ImageExists(_ context.Context, image container.ImageTag) (bool, error) {
	m.calls = append(m.calls, "ImageExists")
	m.imageExistsCalls = append(m.imageExistsCalls, string(image))
	return m.imageExistsResult, m.imageExistsErr
}

func (m *mockEngine) RemoveImage(_ context.Context, _ container.ImageTag, _ bool) error {
	m.calls = append(m.calls, "RemoveImage")
	return nil
}

const testPyproject = `[tool.poetry]
name = "demo-app"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.11"
streamlit = "1.30.0"
`

const testLockfile = `[[package]]
name = "streamlit"
version = "1.30.0"

[metadata]
lock-version = "2.0"
content-hash = "d8e8fca2dc0f896fd7cb4cb0031ba249"
`

const testRecipe = `
runtime: {
	name: "python"
	tag:  "3.11-slim"
}
workspace: {}
install: version: "1.8.3"
expose: port: 8501
launch: {
	command: ["streamlit", "run", "app.py"]
	port: 8501
}
`

// writeWorkspace lays down a complete recipe + workspace fixture and
// returns the parsed recipe.
func writeWorkspace(t *testing.T) *bakefile.Bakefile {
	t.Helper()
	return writeWorkspaceWith(t, testPyproject, testLockfile)
}

func writeWorkspaceWith(t *testing.T, pyproject, lockfile string) *bakefile.Bakefile {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		bakefile.DefaultFileName: testRecipe,
		"pyproject.toml":         pyproject,
		"poetry.lock":            lockfile,
		"app.py":                 "import streamlit\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	bf, err := bakefile.Parse(filepath.Join(dir, bakefile.DefaultFileName))
	if err != nil {
		t.Fatalf("failed to parse fixture recipe: %v", err)
	}
	return bf
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestBuilder_StageOrder(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nil, newMockEngine(), WithLogger(quietLogger()))
	order, err := b.StageOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []StageName{StageResolve, StageMaterialize, StageInstall, StageDeclare, StageLaunchSpec}
	if len(order) != len(want) {
		t.Fatalf("got %d stages, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("stage[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestBuilder_Run_BuildsImage(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	b := NewBuilder(bf, engine, WithLogger(quietLogger()), WithBuildOutput(io.Discard))

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SkippedBuild {
		t.Error("expected a real build, got a cache skip")
	}
	if len(engine.buildCalls) != 1 {
		t.Fatalf("expected 1 build call, got %d", len(engine.buildCalls))
	}
	if engine.buildCalls[0].Tag != result.Image {
		t.Errorf("build tag %q does not match result image %q", engine.buildCalls[0].Tag, result.Image)
	}
	if len(engine.pullCalls) != 1 || engine.pullCalls[0] != "python:3.11-slim" {
		t.Errorf("expected one pull of the base image, got %v", engine.pullCalls)
	}

	// Build must be the last engine interaction.
	if engine.calls[len(engine.calls)-1] != "Build" {
		t.Errorf("expected Build last, got call sequence %v", engine.calls)
	}

	// The Dockerfile handed to the engine matches the result.
	if len(engine.dockerfiles) != 1 || engine.dockerfiles[0] != result.Dockerfile {
		t.Error("Dockerfile in build context does not match result.Dockerfile")
	}

	for _, want := range []string{
		"FROM python:3.11-slim",
		"WORKDIR /app",
		"COPY pyproject.toml poetry.lock ./",
		"pip install --no-cache-dir poetry==1.8.3",
		`ENV POETRY_VIRTUALENVS_CREATE="false"`,
		"poetry install --no-interaction --no-root",
		"COPY . .",
		"EXPOSE 8501",
		`CMD ["poetry", "run", "streamlit", "run", "app.py", "--server.port=8501", "--server.address=0.0.0.0"]`,
	} {
		if !strings.Contains(result.Dockerfile, want) {
			t.Errorf("Dockerfile missing %q:\n%s", want, result.Dockerfile)
		}
	}
}

func TestBuilder_Run_CachedImageSkipsBuild(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	engine.imageExistsResult = true
	b := NewBuilder(bf, engine, WithLogger(quietLogger()))

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.SkippedBuild {
		t.Error("expected SkippedBuild")
	}
	if len(engine.buildCalls) != 0 {
		t.Errorf("expected no build calls, got %d", len(engine.buildCalls))
	}
	if len(engine.pullCalls) != 0 {
		t.Errorf("expected no pull calls, got %d", len(engine.pullCalls))
	}
}

func TestBuilder_Run_ForceRebuild(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	engine.imageExistsResult = true // cached image exists, must be ignored
	b := NewBuilder(bf, engine,
		WithLogger(quietLogger()),
		WithBuildOutput(io.Discard),
		WithForceRebuild(true))

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SkippedBuild {
		t.Error("force rebuild must not skip the build")
	}
	if len(engine.buildCalls) != 1 {
		t.Fatalf("expected 1 build call, got %d", len(engine.buildCalls))
	}
	if !engine.buildCalls[0].NoCache {
		t.Error("force rebuild should disable the engine build cache")
	}
}

func TestBuilder_Run_LockfileGapFailsBeforeAnyEngineCall(t *testing.T) {
	t.Parallel()

	// Lockfile pins nothing, so the manifest's streamlit dependency is
	// uncovered.
	emptyLock := `[metadata]
lock-version = "2.0"
content-hash = "x"
`
	bf := writeWorkspaceWith(t, testPyproject, emptyLock)
	engine := newMockEngine()
	b := NewBuilder(bf, engine, WithLogger(quietLogger()))

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected *InstallError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrInstallFailed) {
		t.Error("error should wrap ErrInstallFailed")
	}
	if !errors.Is(err, poetry.ErrLockfileNotCovering) {
		t.Error("error should wrap poetry.ErrLockfileNotCovering")
	}
	if len(engine.calls) != 0 {
		t.Errorf("no engine call may happen before the coverage gate, got %v", engine.calls)
	}
}

func TestBuilder_Run_MissingSourceStopsPipeline(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	// Point the workspace at a directory that does not exist.
	bf.Workspace.Source = "gone"
	engine := newMockEngine()
	b := NewBuilder(bf, engine, WithLogger(quietLogger()))

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var matErr *MaterializationError
	if !errors.As(err, &matErr) {
		t.Fatalf("expected *MaterializationError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrMaterializationFailed) {
		t.Error("error should wrap ErrMaterializationFailed")
	}
	if len(engine.calls) != 0 {
		t.Errorf("materialize failure must abort before any engine call, got %v", engine.calls)
	}
}

func TestBuilder_Run_MissingLockfileIsMaterializationError(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	if err := os.Remove(filepath.Join(bf.Dir(), "poetry.lock")); err != nil {
		t.Fatal(err)
	}
	engine := newMockEngine()
	b := NewBuilder(bf, engine, WithLogger(quietLogger()))

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var matErr *MaterializationError
	if !errors.As(err, &matErr) {
		t.Fatalf("expected *MaterializationError, got %T: %v", err, err)
	}
	if !strings.Contains(matErr.Path, "poetry.lock") {
		t.Errorf("error should name the lockfile, got path %q", matErr.Path)
	}
	if len(engine.calls) != 0 {
		t.Errorf("expected no engine calls, got %v", engine.calls)
	}
}

func TestBuilder_Run_PullFailureIsResolutionError(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	engine.pullErr = errors.New("manifest unknown")
	b := NewBuilder(bf, engine, WithLogger(quietLogger()))

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T: %v", err, err)
	}
	if resErr.Reference != "python:3.11-slim" {
		t.Errorf("Reference = %q, want base image", resErr.Reference)
	}
	if len(engine.buildCalls) != 0 {
		t.Error("resolution failure must abort before Build")
	}
}

func TestBuilder_Run_TransientPullFailureWarnsAndRecovers(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	engine.pullFailures = 1

	var logs strings.Builder
	b := NewBuilder(bf, engine,
		WithLogger(log.NewWithOptions(&logs, log.Options{})),
		WithBuildOutput(io.Discard),
	)

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(engine.pullCalls) != 2 {
		t.Fatalf("expected 2 pull attempts, got %d", len(engine.pullCalls))
	}
	// The very first retry must be visible to the user, not only the second.
	if !strings.Contains(logs.String(), "retrying base image pull") {
		t.Errorf("first retry was not logged:\n%s", logs.String())
	}
}

func TestBuilder_Run_DryRunTouchesNothing(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()
	b := NewBuilder(bf, engine, WithLogger(quietLogger()), WithDryRun(true))

	result, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(engine.calls) != 0 {
		t.Errorf("dry run must not call the engine, got %v", engine.calls)
	}
	if result.Dockerfile == "" {
		t.Error("dry run should still render the Dockerfile")
	}
	if result.CacheKey == "" {
		t.Error("dry run should still compute the cache key")
	}
}

func TestBuilder_Run_Deterministic(t *testing.T) {
	t.Parallel()

	bf := writeWorkspace(t)
	engine := newMockEngine()

	run := func() *Result {
		b := NewBuilder(bf, engine, WithLogger(quietLogger()), WithDryRun(true))
		result, err := b.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return result
	}

	first, second := run(), run()
	if first.Dockerfile != second.Dockerfile {
		t.Error("identical inputs must render identical Dockerfiles")
	}
	if first.CacheKey != second.CacheKey {
		t.Error("identical inputs must produce identical cache keys")
	}

	// A different lockfile must move the key.
	otherLock := strings.Replace(testLockfile, "1.30.0", "1.31.0", 1)
	other := writeWorkspaceWith(t, testPyproject, otherLock)
	b := NewBuilder(other, engine, WithLogger(quietLogger()), WithDryRun(true))
	third, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.CacheKey == first.CacheKey {
		t.Error("changed lockfile must change the cache key")
	}
}

func TestBuilder_Verify(t *testing.T) {
	t.Parallel()

	t.Run("valid workspace passes without engine calls", func(t *testing.T) {
		t.Parallel()

		bf := writeWorkspace(t)
		engine := newMockEngine()
		b := NewBuilder(bf, engine, WithLogger(quietLogger()))

		if err := b.Verify(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(engine.calls) != 0 {
			t.Errorf("verify must not call the engine, got %v", engine.calls)
		}
	})

	t.Run("port mismatch caught", func(t *testing.T) {
		t.Parallel()

		bf := writeWorkspace(t)
		bf.Launch.Port = 9000 // bypasses parse-time validation on purpose
		b := NewBuilder(bf, newMockEngine(), WithLogger(quietLogger()))

		err := b.Verify(context.Background())
		if !errors.Is(err, ErrLaunchSpecInvalid) {
			t.Errorf("expected ErrLaunchSpecInvalid, got %v", err)
		}
	})
}
