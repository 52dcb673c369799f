package main

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/batch"
	"github.com/ankit-chaubey/image-metadata-extractor/core/publish"
	"github.com/ankit-chaubey/image-metadata-extractor/core/report"
)

func newExtractCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Print the metadata report for one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", a.cfg.Extract.Output, "Output format (text, json)")
	f.Bool("strict", a.cfg.Extract.Strict, "Fail on malformed EXIF instead of reporting it empty")
	f.IntP("concurrency", "j", a.cfg.Extract.Concurrency, "Files processed in parallel")
	f.Bool("publish", a.cfg.Extract.Publish, "Upload JSON reports to the configured S3 bucket")
	_ = a.v.BindPFlag("extract.output", f.Lookup("output"))
	_ = a.v.BindPFlag("extract.strict", f.Lookup("strict"))
	_ = a.v.BindPFlag("extract.concurrency", f.Lookup("concurrency"))
	_ = a.v.BindPFlag("extract.publish", f.Lookup("publish"))
	return cmd
}

func (a *app) runExtract(ctx context.Context, out io.Writer, paths []string) error {
	ext := report.New(report.WithStrict(a.cfg.Extract.Strict))
	results, runErr := batch.NewRunner(ext, a.cfg.Extract.Concurrency).Run(ctx, paths)

	var reports []*core.Report
	for _, res := range results {
		if res.Report != nil {
			reports = append(reports, res.Report)
		}
	}

	printer := &core.Printer{JSON: a.cfg.Extract.Output == "json", Writer: out}
	if len(reports) > 0 {
		if err := printer.PrintReports(reports); err != nil {
			return err
		}
	}

	errs := multierror.Append(nil, runErr)
	if a.cfg.Extract.Publish && len(reports) > 0 {
		pub, err := publish.NewS3(ctx, a.cfg.S3)
		if err != nil {
			errs = multierror.Append(errs, err)
			return errs.ErrorOrNil()
		}
		errs = multierror.Append(errs, publishAll(ctx, pub, printer, reports))
	}
	return errs.ErrorOrNil()
}

func publishAll(ctx context.Context, pub publish.Publisher, printer *core.Printer, reports []*core.Report) error {
	var errs *multierror.Error
	for _, r := range reports {
		uri, err := pub.Publish(ctx, r)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		printer.PrintInfo("published " + uri)
	}
	return errs.ErrorOrNil()
}
