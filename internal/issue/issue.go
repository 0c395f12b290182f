// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ProjectNotFoundId
	NoProjectSpecifiedId
	UnsupportedPackageTypeId
	InvalidMacroId
	BuildToolFailedId
	ContainerEngineNotFoundId
	HookFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal Markdown using the given glamour style
// ("dark", "light", "notty" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No anda.hcl found!

anda looks for the manifest given by ` + "`--config`" + ` (default ` + "`anda.hcl`" + `)
relative to the current directory.

## Things you can try:
- Run anda from the root of your packaging repository
- Point at the manifest explicitly:
~~~
$ anda build --config path/to/anda.hcl
~~~

## Minimal manifest:
~~~hcl
project "hello" {
  rpm {
    spec = "hello.spec"
  }
}
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse the manifest!

One of the ` + "`anda.hcl`" + ` files is not valid HCL or does not match the
expected schema. The message above names the file and position.

## Common causes:
- A block written on one line that contains another block
- A typo in an attribute name inside a ` + "`project`" + ` block
- An ` + "`image`" + ` block without a ` + "`context`" + ` attribute
- A ` + "`project_regex`" + ` that is not a valid regular expression

## Things you can try:
- Print the merged manifest to see how anda reads it:
~~~
$ anda list --hcl
~~~`,
	}

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# Project not found!

No project label or alias matches the requested name.

## Things you can try:
- List the known projects and their aliases:
~~~
$ anda list
~~~
- Check ` + "`strip_prefix`" + ` and ` + "`strip_suffix`" + ` in the ` + "`config`" + ` block,
  they control the generated aliases`,
	}

	noProjectSpecifiedIssue = &Issue{
		id: NoProjectSpecifiedId,
		mdMsg: `
# No project specified!

## Things you can try:
- Name the project to build:
~~~
$ anda build my-project
~~~
- Or build every project in the manifest:
~~~
$ anda build --all
~~~`,
	}

	unsupportedPackageTypeIssue = &Issue{
		id: UnsupportedPackageTypeId,
		mdMsg: `
# Package type not supported!

The requested package type is recognised but anda cannot build it yet.

## Things you can try:
- Pick one of ` + "`rpm`, `flatpak`, `docker`, `podman` or `all`" + ` with ` + "`--package`",
	}

	invalidMacroIssue = &Issue{
		id: InvalidMacroId,
		mdMsg: `
# Invalid RPM macro!

Macros passed with ` + "`--rpm-macro`" + ` must have the form ` + "`NAME VALUE`" + `.

## Example:
~~~
$ anda build hello --rpm-macro "dist .fc40"
~~~`,
	}

	buildToolFailedIssue = &Issue{
		id: BuildToolFailedId,
		mdMsg: `
# Build tool failed!

An external build tool exited with a non-zero status. Its output is shown above.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the exact command line
- Make sure the tool is installed and in your PATH
  (` + "`mock`, `rpmbuild`, `flatpak-builder`, `createrepo_c`" + `)
- For mock builds, check that your user is in the ` + "`mock`" + ` group`,
		extLinks: []HttpLink{
			"https://rpm-software-management.github.io/mock/",
			"https://docs.flatpak.org/en/latest/flatpak-builder.html",
		},
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

OCI images are built with Docker or Podman, and neither binary was found.

## Things you can try:
- Install Podman (recommended):
~~~
$ sudo dnf install podman
~~~
- Or enable the fallback to the other engine in your config:
~~~cue
container: fallback: true
~~~`,
		extLinks: []HttpLink{
			"https://podman.io/docs/installation",
			"https://docs.docker.com/engine/install/",
		},
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# Hook script failed!

A ` + "`pre_script`" + ` or ` + "`post_script`" + ` hook failed. Each line runs in its
own shell, starting in the manifest directory.

## Things you can try:
- Check the reported line for typos and unbalanced quotes
- Run the line by hand from the manifest directory
- Remember that shell state (variables, ` + "`cd`" + `) does not carry across lines`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The anda configuration file could not be read or failed schema validation.

## Search locations:
1. ` + "`$XDG_CONFIG_HOME/anda/config.cue`" + `
2. ` + "`./anda.config.cue`" + `

## Things you can try:
- Show the effective configuration:
~~~
$ anda config show
~~~
- Remove unknown keys; the schema is closed`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

## Common causes:
- The target directory belongs to another user (often after a build as root)
- The container engine requires elevated permissions
- Your user is not in the ` + "`mock`" + ` group

## Things you can try:
- Clean the target directory:
~~~
$ anda clean
~~~
- Use rootless Podman for OCI builds`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():        manifestNotFoundIssue,
		manifestParseErrorIssue.Id():      manifestParseErrorIssue,
		projectNotFoundIssue.Id():         projectNotFoundIssue,
		noProjectSpecifiedIssue.Id():      noProjectSpecifiedIssue,
		unsupportedPackageTypeIssue.Id():  unsupportedPackageTypeIssue,
		invalidMacroIssue.Id():            invalidMacroIssue,
		buildToolFailedIssue.Id():         buildToolFailedIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		hookFailedIssue.Id():              hookFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
