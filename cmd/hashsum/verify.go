package main

import (
	"github.com/spf13/cobra"

	"hashsum/internal/manifest"
	"hashsum/internal/report"
	"hashsum/internal/verify"
)

func newVerifyCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify --checksum-file <path> [flags] [files...]",
		Short: "Verify files against a checksum file",
		Long: "Verify files against a checksum file of \"<hex-digest>  <filename>\" lines.\n\n" +
			"With no files, every entry is checked, resolved relative to the checksum\n" +
			"file's directory. With files, only entries whose file name matches one of\n" +
			"them are checked, and files missing from the checksum file are reported.",
		Example: "hashsum verify -c SHA256SUMS ./iso/debian.iso",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runVerify(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&o.checksumFile, "checksum-file", "c", "", "Checksum file to use during verification")
	cmd.Flags().BoolVar(&o.bsd, "bsd", false, "Read BSD style \"ALG (file) = hash\" lines (not supported)")
	_ = cmd.MarkFlagRequired("checksum-file")

	return cmd
}

func (o *options) runVerify(cmd *cobra.Command, files []string) error {
	format := manifest.FormatGNU
	if o.bsd {
		format = manifest.FormatBSD
	}
	if err := manifest.CheckFormat(format); err != nil {
		return err
	}

	r := o.start(cmd, "verifying", -1)
	w := report.New(cmd.OutOrStdout(), o.format, o.quiet, o.logger)

	res, err := verify.Verify(cmd.Context(), verify.Request{
		Manifest:  o.checksumFile,
		Files:     files,
		Algorithm: o.hashType,
		Format:    format,
	}, r.verifyOptions(), w.Outcome)
	r.finish()
	if err != nil {
		return err
	}
	return res.Err()
}
