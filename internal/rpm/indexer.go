// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"context"
	"fmt"
	"os"

	"github.com/fyralabs/anda/internal/process"
)

// Indexer regenerates repository metadata with createrepo_c.
type Indexer struct {
	Runner process.Runner
}

// Index updates the repodata of repoDir, creating the directory if needed.
func (i *Indexer) Index(ctx context.Context, repoDir string) error {
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", repoDir, err)
	}
	return i.Runner.Run(ctx, process.Cmd{
		Name: "createrepo_c",
		Args: []string{"--quiet", "--update", repoDir},
		Dir:  repoDir,
	})
}
