// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"

	"bakery-cli/internal/dag"
)

// Stage names, also the node identifiers in the stage graph.
const (
	StageResolve     StageName = "resolve"
	StageMaterialize StageName = "materialize"
	StageInstall     StageName = "install"
	StageDeclare     StageName = "declare"
	StageLaunchSpec  StageName = "launch-spec"
)

type (
	// StageName identifies a pipeline stage.
	StageName string

	// Stage is one node of the build pipeline. Stages run in two phases:
	// every Check runs before any Run, so host-side precondition failures
	// abort the build before the engine or the filesystem is touched.
	Stage interface {
		// Name returns the stage's graph node identifier.
		Name() StageName

		// DependsOn lists the stages that must complete before this one.
		DependsOn() []StageName

		// Check performs host-side validation. It must not call the
		// container engine and must not mutate the filesystem.
		Check(ctx context.Context, b *Build) error

		// Run performs the stage's work: engine calls, build context
		// population, Dockerfile layer contributions.
		Run(ctx context.Context, b *Build) error
	}
)

// String returns the string representation of the StageName.
func (n StageName) String() string { return string(n) }

// defaultStages returns the five pipeline stages in declaration order.
// The execution order is decided by the graph, not by this slice.
func defaultStages() []Stage {
	return []Stage{
		&resolveStage{},
		&materializeStage{},
		&installStage{},
		&declareStage{},
		&launchSpecStage{},
	}
}

// orderStages wires the stages into a dependency graph and returns them in
// a valid topological order.
func orderStages(stages []Stage) ([]Stage, error) {
	byName := make(map[StageName]Stage, len(stages))
	g := dag.New()
	for _, s := range stages {
		byName[s.Name()] = s
		g.AddNode(string(s.Name()))
	}
	for _, s := range stages {
		for _, dep := range s.DependsOn() {
			g.AddEdge(string(dep), string(s.Name()))
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	ordered := make([]Stage, 0, len(order))
	for _, name := range order {
		ordered = append(ordered, byName[StageName(name)])
	}
	return ordered, nil
}
