package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hashsum/internal/manifest"
	"hashsum/internal/report"
	"hashsum/internal/verify"
)

func newHashCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "hash [flags] <files...>",
		Short:   "Compute the digest of each file",
		Example: "hashsum hash --hash-type blake3 debian.iso > SHA256SUMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runHash(cmd, args)
		},
	}
}

func (o *options) runHash(cmd *cobra.Command, files []string) error {
	r := o.start(cmd, "hashing", totalSize(files))
	w := report.New(cmd.OutOrStdout(), o.format, o.quiet, o.logger)

	err := verify.HashFiles(cmd.Context(), files, o.hashType, r.verifyOptions(), func(e manifest.Entry) error {
		return w.Digest(e, o.hashType)
	})
	r.finish()
	if err != nil {
		return fmt.Errorf("hashing files: %w", err)
	}
	return nil
}

// totalSize sums the sizes of files that can be stat'ed, for the progress
// bar. Failures surface later when the file is hashed.
func totalSize(files []string) int64 {
	var total int64
	for _, f := range files {
		if st, err := os.Stat(f); err == nil && st.Mode().IsRegular() {
			total += st.Size()
		}
	}
	if total == 0 {
		return -1
	}
	return total
}
