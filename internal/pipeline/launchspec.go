// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
)

// launchSpecStage emits the image start command: the installer's run
// wrapper, the application command from the recipe, and the network binding
// flags. The declared port and the bind port are the same value by recipe
// validation, so the socket the image EXPOSEs is the one the process
// listens on.
type launchSpecStage struct{}

func (s *launchSpecStage) Name() StageName        { return StageLaunchSpec }
func (s *launchSpecStage) DependsOn() []StageName { return []StageName{StageDeclare} }

func (s *launchSpecStage) Check(_ context.Context, b *Build) error {
	launch := b.Recipe.Launch
	if err := launch.ValidateCommand(); err != nil {
		return &LaunchError{Reason: "bad launch command", Err: err}
	}
	if err := launch.Address.Validate(); err != nil {
		return &LaunchError{Reason: "bad bind address", Err: err}
	}
	if launch.Port != b.Recipe.Expose.Port {
		return &LaunchError{
			Reason: fmt.Sprintf("bind port %d does not match declared port %d",
				launch.Port, b.Recipe.Expose.Port),
		}
	}
	return nil
}

func (s *launchSpecStage) Run(_ context.Context, b *Build) error {
	launch := b.Recipe.Launch

	cmd := make([]string, 0, len(launch.Command)+4)
	cmd = append(cmd, string(b.Recipe.Install.Tool), "run")
	cmd = append(cmd, launch.Command...)
	cmd = append(cmd,
		fmt.Sprintf("--server.port=%d", launch.Port),
		fmt.Sprintf("--server.address=%s", launch.Address),
	)

	b.Dockerfile.Cmd = cmd
	return nil
}
