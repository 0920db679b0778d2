// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"bakery-cli/internal/container"
	"bakery-cli/pkg/bakefile"
	"bakery-cli/pkg/poetry"
)

type (
	// Build is the mutable state threaded through the stages of a single
	// pipeline execution.
	Build struct {
		Recipe *bakefile.Bakefile
		Engine container.Engine
		Logger *log.Logger

		// DryRun disables engine calls and filesystem writes; stages still
		// contribute their Dockerfile layers so the plan can be inspected.
		DryRun bool

		// SourceDir is the absolute path of the application source tree.
		// Set by the materialize stage's Check.
		SourceDir string

		// ManifestPath and LockfilePath are absolute host paths.
		// Set by the materialize stage's Check.
		ManifestPath string
		LockfilePath string

		// ManifestData and LockfileData are the raw bytes that enter the
		// cache key. Set by the materialize stage's Check.
		ManifestData []byte
		LockfileData []byte

		// Manifest and Lockfile are the parsed forms. Set by the install
		// stage's Check.
		Manifest *poetry.Manifest
		Lockfile *poetry.Lockfile

		// ContextDir is the isolated build context populated by the
		// materialize stage's Run. Empty in dry-run mode.
		ContextDir string

		// Dockerfile accumulates each stage's layer contributions.
		Dockerfile Dockerfile

		cleanup []func()
	}

	// Result describes a completed (or skipped) pipeline execution.
	Result struct {
		// Image is the tag of the built (or reused) image.
		Image container.ImageTag
		// CacheKey is the full cache key derived from the build inputs.
		CacheKey string
		// Dockerfile is the rendered image definition.
		Dockerfile string
		// SkippedBuild reports that a cached image satisfied the build.
		SkippedBuild bool
	}

	// Builder runs the build pipeline for one recipe.
	Builder struct {
		recipe       *bakefile.Bakefile
		engine       container.Engine
		logger       *log.Logger
		stages       []Stage
		forceRebuild bool
		dryRun       bool
		tag          container.ImageTag
		buildOutput  io.Writer
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)
)

// WithLogger sets the logger used for stage progress.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithForceRebuild disables the cached-image short circuit.
func WithForceRebuild(force bool) BuilderOption {
	return func(b *Builder) { b.forceRebuild = force }
}

// WithDryRun makes Run produce the plan (stage order, Dockerfile, cache key)
// without touching the engine or the filesystem.
func WithDryRun(dryRun bool) BuilderOption {
	return func(b *Builder) { b.dryRun = dryRun }
}

// WithImageTag overrides the cache-key-derived image tag.
func WithImageTag(tag container.ImageTag) BuilderOption {
	return func(b *Builder) { b.tag = tag }
}

// WithBuildOutput directs engine build output somewhere other than stderr.
func WithBuildOutput(w io.Writer) BuilderOption {
	return func(b *Builder) { b.buildOutput = w }
}

// NewBuilder creates a Builder for the given recipe and engine.
func NewBuilder(recipe *bakefile.Bakefile, engine container.Engine, opts ...BuilderOption) *Builder {
	b := &Builder{
		recipe: recipe,
		engine: engine,
		stages: defaultStages(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "bakery"})
	}
	if b.buildOutput == nil {
		b.buildOutput = os.Stderr
	}
	return b
}

// StageOrder returns the stage names in execution order.
func (b *Builder) StageOrder() ([]StageName, error) {
	ordered, err := orderStages(b.stages)
	if err != nil {
		return nil, err
	}
	names := make([]StageName, len(ordered))
	for i, s := range ordered {
		names[i] = s.Name()
	}
	return names, nil
}

// Verify runs every stage's host-side Check in graph order and stops at the
// first failure. No engine call and no filesystem write happens here. It is
// the whole of `bakery validate` and the first phase of Run.
func (b *Builder) Verify(ctx context.Context) error {
	ordered, err := orderStages(b.stages)
	if err != nil {
		return err
	}

	build := b.newBuild()
	return b.verify(ctx, ordered, build)
}

// Run executes the pipeline: verify phase, cached-image short circuit, stage
// execution, image assembly. The first stage error aborts the build; no
// partial image is tagged.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	ordered, err := orderStages(b.stages)
	if err != nil {
		return nil, err
	}

	build := b.newBuild()
	defer build.runCleanups()

	if err := b.verify(ctx, ordered, build); err != nil {
		return nil, err
	}

	cacheKey := CacheKey(b.recipe.Runtime.Reference(), build.ManifestData, build.LockfileData)
	tag := b.tag
	if tag == "" {
		tag = DefaultImageTag(cacheKey)
	}

	if !b.forceRebuild && !b.dryRun {
		exists, err := b.engine.ImageExists(ctx, tag)
		if err == nil && exists {
			b.logger.Info("image up to date, skipping build", "image", tag, "cache_key", cacheKey[:shortKeyLen])
			return &Result{Image: tag, CacheKey: cacheKey, SkippedBuild: true}, nil
		}
	}

	for _, stage := range ordered {
		b.logger.Debug("running stage", "stage", stage.Name())
		if err := stage.Run(ctx, build); err != nil {
			return nil, err
		}
	}

	dockerfile := build.Dockerfile.Render()

	if b.dryRun {
		return &Result{Image: tag, CacheKey: cacheKey, Dockerfile: dockerfile}, nil
	}

	dockerfilePath := filepath.Join(build.ContextDir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o644); err != nil {
		return nil, &MaterializationError{Path: dockerfilePath, Err: err}
	}

	b.logger.Info("building image", "image", tag, "context", build.ContextDir)
	buildOpts := container.BuildOptions{
		ContextDir: build.ContextDir,
		Dockerfile: "Dockerfile",
		Tag:        tag,
		NoCache:    b.forceRebuild,
		Stdout:     b.buildOutput,
		Stderr:     b.buildOutput,
	}
	if err := b.engine.Build(ctx, buildOpts); err != nil {
		return nil, &InstallError{Reason: "image build failed", Err: err}
	}

	return &Result{Image: tag, CacheKey: cacheKey, Dockerfile: dockerfile}, nil
}

func (b *Builder) newBuild() *Build {
	return &Build{
		Recipe: b.recipe,
		Engine: b.engine,
		Logger: b.logger,
		DryRun: b.dryRun,
	}
}

func (b *Builder) verify(ctx context.Context, ordered []Stage, build *Build) error {
	for _, stage := range ordered {
		b.logger.Debug("checking stage preconditions", "stage", stage.Name())
		if err := stage.Check(ctx, build); err != nil {
			return err
		}
	}
	return nil
}

// addCleanup registers a function to run when the pipeline finishes,
// successfully or not.
func (b *Build) addCleanup(fn func()) {
	b.cleanup = append(b.cleanup, fn)
}

func (b *Build) runCleanups() {
	for i := len(b.cleanup) - 1; i >= 0; i-- {
		b.cleanup[i]()
	}
}

// imageReference returns the recipe's base image as an engine ImageTag.
func (b *Build) imageReference() container.ImageTag {
	return container.ImageTag(b.Recipe.Runtime.Reference())
}

// relWorkspacePath joins and normalizes a workspace-relative path for use in
// Dockerfile COPY instructions.
func relWorkspacePath(p bakefile.WorkspacePath) string {
	return filepath.ToSlash(filepath.Clean(string(p)))
}

// hostPath resolves a workspace-relative path against the source directory.
func (b *Build) hostPath(p bakefile.WorkspacePath) string {
	return filepath.Join(b.SourceDir, filepath.FromSlash(string(p)))
}
