// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// EnvVar is an ordered environment variable assignment. A slice keeps
	// rendering deterministic; a map would not.
	EnvVar struct {
		Key   string
		Value string
	}

	// Dockerfile is the image definition assembled by the pipeline stages.
	// Each stage fills in the fields it owns; Render emits the sections in
	// a fixed canonical order, so the resulting bytes depend only on the
	// field values, never on stage scheduling.
	Dockerfile struct {
		// BaseImage is the FROM reference. Set by the resolve stage.
		BaseImage string

		// WorkDir is the working directory inside the image. Set by the
		// materialize stage.
		WorkDir string

		// DependencyFiles are copied before the source tree so that the
		// dependency layers cache independently of source edits. Set by
		// the install stage.
		DependencyFiles []string

		// Env are installer environment variables. Set by the install stage.
		Env []EnvVar

		// InstallCommands are the RUN lines that install the pinned
		// installer tool and replay the lockfile. Set by the install stage.
		InstallCommands []string

		// CopySource copies the workspace into the image after the
		// dependency layers. Set by the materialize stage.
		CopySource bool

		// ExposePort is the declared network port metadata (0 = none).
		// Set by the declare stage.
		ExposePort uint16

		// Cmd is the exec-form start command. Set by the launch-spec stage.
		Cmd []string
	}
)

// Render emits the Dockerfile as deterministic bytes.
func (d *Dockerfile) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "FROM %s\n", d.BaseImage)

	if d.WorkDir != "" {
		fmt.Fprintf(&sb, "\nWORKDIR %s\n", d.WorkDir)
	}

	if len(d.DependencyFiles) > 0 {
		fmt.Fprintf(&sb, "\nCOPY %s ./\n", strings.Join(d.DependencyFiles, " "))
	}

	for _, e := range d.Env {
		fmt.Fprintf(&sb, "ENV %s=%s\n", e.Key, strconv.Quote(e.Value))
	}

	for _, cmd := range d.InstallCommands {
		fmt.Fprintf(&sb, "RUN %s\n", cmd)
	}

	if d.CopySource {
		sb.WriteString("\nCOPY . .\n")
	}

	if d.ExposePort != 0 {
		fmt.Fprintf(&sb, "\nEXPOSE %d\n", d.ExposePort)
	}

	if len(d.Cmd) > 0 {
		fmt.Fprintf(&sb, "\nCMD %s\n", execForm(d.Cmd))
	}

	return sb.String()
}

// execForm renders a command in Dockerfile exec (JSON array) form.
func execForm(cmd []string) string {
	quoted := make([]string, len(cmd))
	for i, c := range cmd {
		quoted[i] = strconv.Quote(c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
