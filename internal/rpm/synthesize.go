// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fyralabs/anda/internal/vcs"
	"github.com/fyralabs/anda/pkg/andafile"
	"github.com/fyralabs/anda/pkg/fspath"
)

// ErrInvalidMacro is the sentinel wrapped by InvalidMacroError.
var ErrInvalidMacro = errors.New("invalid rpm macro")

// Macros every build receives.
const (
	MacroAutoGitVersion = "autogitversion"
	MacroAutoGitCommit  = "autogitcommit"
	MacroAutoGitDate    = "autogitdate"

	dateLayout = "20060102"
)

type (
	// Clock supplies the build date.
	Clock interface {
		Now() time.Time
	}

	// Synthesizer composes Options for one RPM build.
	Synthesizer struct {
		Clock Clock
		// Commit resolves the HEAD commit of the repository holding dir.
		Commit func(dir string) (string, bool)
		Logger *slog.Logger
	}

	// Flags are the command-line overrides for RPM builds.
	Flags struct {
		MockConfig *string
		ExtraRepos []string
		// Macros are "NAME VALUE" strings.
		Macros    []string
		NoMirrors bool
		Builder   BuilderKind
	}

	// Input is everything Synthesize reads.
	Input struct {
		Rpm   *andafile.RpmBuild
		Flags Flags
		// WorkDir is the manifest root. Relative project paths resolve
		// against it.
		WorkDir   string
		TargetDir string
		// GlobalMockConfig is the manifest-wide config.mock_config.
		GlobalMockConfig *string
	}

	// InvalidMacroError reports a macro override without a "NAME VALUE" separator.
	InvalidMacroError struct {
		Value string
	}

	realClock struct{}
)

// Error implements the error interface.
func (e *InvalidMacroError) Error() string {
	return fmt.Sprintf("invalid rpm macro: %s (expected \"NAME VALUE\")", e.Value)
}

// Unwrap returns ErrInvalidMacro so callers can use errors.Is for programmatic detection.
func (e *InvalidMacroError) Unwrap() error { return ErrInvalidMacro }

func (realClock) Now() time.Time { return time.Now() }

// NewSynthesizer returns a Synthesizer using the system clock and git.
func NewSynthesizer(logger *slog.Logger) *Synthesizer {
	return &Synthesizer{Clock: realClock{}, Commit: vcs.HeadCommit, Logger: logger}
}

// Synthesize builds the Options for one RPM build. It fails only on a
// malformed macro override, before anything is executed.
func (s *Synthesizer) Synthesize(in Input) (*Options, error) {
	workDir, err := fspath.Abs(in.WorkDir)
	if err != nil {
		return nil, err
	}
	targetDir, err := fspath.Abs(in.TargetDir)
	if err != nil {
		return nil, err
	}

	opts := &Options{
		MockConfig: in.Flags.MockConfig,
		WorkDir:    workDir,
		Sources:    workDir,
		TargetDir:  targetDir,
		NoMirror:   in.Flags.NoMirrors,
	}

	if r := in.Rpm; r != nil {
		if r.Sources != nil {
			opts.Sources = resolve(workDir, *r.Sources)
		}

		opts.DefineMacro("_disable_source_fetch", "0")
		opts.ConfigOpts = append(opts.ConfigOpts, "external_buildrequires=True")

		if r.EnableSCM != nil {
			opts.SCMEnable = *r.EnableSCM
		}
		opts.SCMOpts = append(opts.SCMOpts, keyValues(r.SCMOpts)...)
		opts.ConfigOpts = append(opts.ConfigOpts, keyValues(r.Config)...)
		opts.PluginOpts = append(opts.PluginOpts, keyValues(r.PluginOpts)...)

		if opts.MockConfig == nil {
			opts.MockConfig = r.MockConfig
		}
	}
	if opts.MockConfig == nil {
		opts.MockConfig = in.GlobalMockConfig
	}

	if repodata := filepath.Join(opts.RPMDir(), "repodata"); fspath.IsDir(repodata) {
		opts.ExtraRepos = append(opts.ExtraRepos, "file://"+opts.RPMDir())
	} else {
		s.logger().Debug("no local repodata, skipping repo chaining", "path", repodata)
	}
	opts.ExtraRepos = append(opts.ExtraRepos, in.Flags.ExtraRepos...)

	for _, raw := range in.Flags.Macros {
		name, value, ok := strings.Cut(raw, " ")
		if !ok {
			return nil, &InvalidMacroError{Value: raw}
		}
		opts.DefineMacro(name, value)
	}

	s.defineAutoGitMacros(opts, workDir)
	return opts, nil
}

func (s *Synthesizer) defineAutoGitMacros(opts *Options, workDir string) {
	clock := s.Clock
	if clock == nil {
		clock = realClock{}
	}
	date := clock.Now().UTC().Format(dateLayout)

	var commit string
	var ok bool
	if s.Commit != nil {
		commit, ok = s.Commit(workDir)
	}

	if ok {
		opts.DefineMacro(MacroAutoGitVersion, date+"."+vcs.ShortCommit(commit))
		opts.DefineMacro(MacroAutoGitCommit, commit)
	} else {
		opts.DefineMacro(MacroAutoGitVersion, date)
		opts.DefineMacro(MacroAutoGitCommit, "unknown")
	}
	opts.DefineMacro(MacroAutoGitDate, date)
}

func (s *Synthesizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// keyValues formats a map as sorted "key=value" strings.
func keyValues(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
