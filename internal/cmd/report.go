// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/aibor/fwminimize/internal/workflow"
	"github.com/dustin/go-humanize"
)

func printReport(w io.Writer, report *workflow.Report, listFiles bool) {
	if report.Result != nil {
		if listFiles {
			printFiles(w, "Kept", report.Result.Kept)
			printFiles(w, "Removed", report.Result.Removed)
		}

		fmt.Fprintf(w, "Kept: %d files\n", len(report.Result.Kept))
		fmt.Fprintf(w, "Removed: %d files\n", len(report.Result.Removed))
	}

	if report.DryRun {
		fmt.Fprintln(w, "Dry run, no package built")
		return
	}

	fmt.Fprintf(w, "Package: %s\n", report.Output)

	saved, percent, ok := report.Reduction()
	if !ok {
		return
	}

	fmt.Fprintf(w, "Original size: %s\n", humanize.IBytes(uint64(report.ArchiveSize))) //nolint:gosec
	fmt.Fprintf(w, "New size: %s\n", humanize.IBytes(uint64(report.OutputSize)))       //nolint:gosec

	if saved >= 0 {
		fmt.Fprintf(w, "Saved: %s (%.1f%%)\n", humanize.IBytes(uint64(saved)), percent) //nolint:gosec
	} else {
		fmt.Fprintf(w, "Grown: %s (%.1f%%)\n", humanize.IBytes(uint64(-saved)), -percent) //nolint:gosec
	}
}

func printFiles(w io.Writer, title string, files []string) {
	fmt.Fprintf(w, "%s files:\n", title)

	for _, file := range files {
		fmt.Fprintf(w, "  %s\n", file)
	}
}
