// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	BakefileNotFoundId Id = iota + 1
	BakefileParseErrorId
	ContainerEngineNotFoundId
	BaseImageUnavailableId
	LockfileMissingId
	LockfileStaleId
	SourceTreeMissingId
	LaunchFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	bakefileNotFoundIssue = &Issue{
		id: BakefileNotFoundId,
		mdMsg: `
# No bakefile found!

We searched for a bakefile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The path given via --bakefile
2. Current directory (bakefile.cue)

## Things you can try:
- Scaffold a bakefile next to your application:
~~~
$ bakery init
~~~

- Or point bakery at your project directory:
~~~
$ cd /path/to/your/app
$ bakery build
~~~

## Example bakefile structure:
~~~cue
runtime: {
    name: "python"
    tag:  "3.11-slim"
}

workspace: {
    source:   "."
    manifest: "pyproject.toml"
    lockfile: "poetry.lock"
}

expose: port: 8501

launch: {
    command: ["streamlit", "run", "app.py"]
    port:    8501
}
~~~`,
	}

	bakefileParseErrorIssue = &Issue{
		id: BakefileParseErrorId,
		mdMsg: `
# Failed to parse bakefile!

Your bakefile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A port outside the 1-65535 range
- launch.port not matching expose.port

## Things you can try:
- Check the error message above for the specific line/column
- Validate the recipe without building:
~~~
$ bakery validate
~~~

- Run with verbose mode for more details:
~~~
$ bakery --verbose build
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

bakery needs a container engine to build and run images, but none is available.

## Supported container engines:
- **Podman** (recommended for rootless containers)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Install Docker:
  - https://docs.docker.com/get-docker/

- Configure your preferred engine in the bakery config:
~~~cue
container_engine: "podman"  // or "docker"
~~~`,
	}

	baseImageUnavailableIssue = &Issue{
		id: BaseImageUnavailableId,
		mdMsg: `
# Base image unavailable!

The runtime image named in your bakefile could not be resolved.

## Common causes:
- A typo in the runtime name or version tag
- The tag was never published upstream
- No network access to the registry

## Things you can try:
- Check the runtime block in your bakefile:
~~~cue
runtime: {
    name: "python"
    tag:  "3.11-slim"
}
~~~

- Try pulling the image manually:
~~~
$ docker pull python:3.11-slim
~~~

- Pin to a digest for a content-addressed reference:
~~~cue
runtime: digest: "sha256:..."
~~~`,
	}

	lockfileMissingIssue = &Issue{
		id: LockfileMissingId,
		mdMsg: `
# Lockfile missing!

A lockfile is required: without it the build would silently install
unpinned latest versions, and the resulting image would not be reproducible.

## Things you can try:
- Generate a lockfile from your manifest:
~~~
$ poetry lock
~~~

- Check the workspace block points at the right file:
~~~cue
workspace: lockfile: "poetry.lock"
~~~`,
	}

	lockfileStaleIssue = &Issue{
		id: LockfileStaleId,
		mdMsg: `
# Lockfile does not cover the manifest!

One or more direct dependencies declared in the manifest are not pinned
in the lockfile. The build stops before anything is fetched.

## Things you can try:
- Re-resolve the lockfile after editing the manifest:
~~~
$ poetry lock
~~~

- Inspect the coverage report:
~~~
$ bakery validate
~~~`,
	}

	sourceTreeMissingIssue = &Issue{
		id: SourceTreeMissingId,
		mdMsg: `
# Application source not found!

The workspace source directory named in your bakefile does not exist,
so there is nothing to copy into the image.

## Things you can try:
- Check the workspace block:
~~~cue
workspace: source: "."
~~~

- Run bakery from your project root, or pass an absolute path`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# Launch failed!

The container started but the application process exited before it was ready.

## Common causes:
- The entry point file named in launch.command does not exist in the source tree
- The application crashed during startup
- Another process already holds the host port

## Things you can try:
- Inspect the container logs printed above
- Check the entry point path relative to the workspace:
~~~cue
launch: command: ["streamlit", "run", "app.py"]
~~~

- Map a different host port:
~~~
$ bakery run --publish 9000
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the bakery configuration file.

## Configuration file locations:
- Linux: ~/.config/bakery/config.cue
- macOS: ~/Library/Application Support/bakery/config.cue
- Windows: %APPDATA%\bakery\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ bakery config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/bakery/config.cue
~~~

## Example configuration:
~~~cue
container_engine: "podman"
cache_dir: "/home/user/.cache/bakery"

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		bakefileNotFoundIssue.Id():        bakefileNotFoundIssue,
		bakefileParseErrorIssue.Id():      bakefileParseErrorIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		baseImageUnavailableIssue.Id():    baseImageUnavailableIssue,
		lockfileMissingIssue.Id():         lockfileMissingIssue,
		lockfileStaleIssue.Id():           lockfileStaleIssue,
		sourceTreeMissingIssue.Id():       sourceTreeMissingIssue,
		launchFailedIssue.Id():            launchFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
