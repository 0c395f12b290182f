// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/charmbracelet/fang"

	"github.com/fyralabs/anda/internal/build"
	"github.com/fyralabs/anda/internal/issue"
	"github.com/fyralabs/anda/internal/rpm"
	"github.com/fyralabs/anda/pkg/andafile"
)

// issueRule maps a sentinel error to the guide that explains it.
type issueRule struct {
	target      error
	id          issue.Id
	operation   string
	suggestions []string
}

var issueRules = []issueRule{
	{andafile.ErrNoManifest, issue.ManifestNotFoundId, "load manifest", []string{
		"Run anda from the directory that contains anda.hcl",
		"Pass the manifest path with --config",
	}},
	{andafile.ErrInvalidManifest, issue.ManifestParseErrorId, "load manifest", nil},
	{build.ErrProjectNotFound, issue.ProjectNotFoundId, "select project", []string{
		"Run 'anda list' to see project names and aliases",
	}},
	{build.ErrNoProjectSpecified, issue.NoProjectSpecifiedId, "select project", []string{
		"Name a project or pass --all",
	}},
	{build.ErrUnsupportedPackageType, issue.UnsupportedPackageTypeId, "build", nil},
	{rpm.ErrInvalidMacro, issue.InvalidMacroId, "build", []string{
		`Write macro overrides as -D "NAME VALUE"`,
	}},
	{fs.ErrPermission, issue.PermissionDeniedId, "access file", nil},
}

// classify attaches an issue guide to err when one applies. Errors that
// already carry a guide are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := issue.Lookup(err); ok {
		return err
	}
	for _, rule := range issueRules {
		if errors.Is(err, rule.target) {
			return issue.NewErrorContext().
				WithOperation(rule.operation).
				WithIssue(rule.id).
				WithSuggestions(rule.suggestions...).
				Wrap(err).
				BuildError()
		}
	}
	return err
}

// errorHandler renders failures for fang: the error with its suggestions,
// followed by the matching issue guide.
func (a *App) errorHandler(w io.Writer, _ fang.Styles, err error) {
	a.renderError(w, err, a.logger.Enabled(context.Background(), slog.LevelDebug))
}

func (a *App) renderError(w io.Writer, err error, verbose bool) {
	err = classify(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	msg := err.Error()
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		msg = ae.Format(verbose)
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+msg)

	guide, ok := issue.Lookup(err)
	if !ok {
		return
	}
	rendered, renderErr := guide.Render(a.issueStyle)
	if renderErr != nil {
		a.logger.Warn("failed to render issue guide", "issueID", guide.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
