// SPDX-License-Identifier: MPL-2.0

package pipeline

import "context"

// declareStage emits the EXPOSE metadata for the recipe's declared port.
// Purely declarative: no socket is opened, no engine call is made. The
// stage is order-independent but still sits in the graph so the plan output
// shows every stage.
type declareStage struct{}

func (s *declareStage) Name() StageName        { return StageDeclare }
func (s *declareStage) DependsOn() []StageName { return []StageName{StageInstall} }

func (s *declareStage) Check(_ context.Context, b *Build) error {
	return b.Recipe.Expose.Port.Validate()
}

func (s *declareStage) Run(_ context.Context, b *Build) error {
	b.Dockerfile.ExposePort = uint16(b.Recipe.Expose.Port)
	return nil
}
