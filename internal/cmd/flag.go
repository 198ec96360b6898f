// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/aibor/fwminimize/internal/config"
	"github.com/aibor/fwminimize/internal/rpm"
	"github.com/spf13/pflag"
)

const (
	name = "fwminimize"

	outputDefault  = rpm.PackageName + ".rpm"
	versionDefault = "1.0"

	usageMessage = `Usage of 'fwminimize':
    fwminimize [flags...]

Builds a reduced linux-firmware RPM that only contains the firmware files
matching the driver patterns of the drivers file. The upstream package is
downloaded with dnf and the reduced package is built with rpmbuild, falling
back to fpm.

Show what would be kept without building anything:
	fwminimize --dry-run --list-files

Build from an already downloaded package without host tools for extraction:
	fwminimize --source linux-firmware.rpm --extractor native
`
)

// Extractor names.
const (
	extractorRPM2CPIO = "rpm2cpio"
	extractorNative   = "native"
)

// extractorValue is a [pflag.Value] that only accepts known extractor names.
type extractorValue string

func (e *extractorValue) String() string {
	return string(*e)
}

func (e *extractorValue) Set(s string) error {
	switch s {
	case extractorRPM2CPIO, extractorNative:
		*e = extractorValue(s)
		return nil
	default:
		return fmt.Errorf("%w: %s (use %s or %s)",
			ErrUnknownExtractor, s, extractorRPM2CPIO, extractorNative)
	}
}

func (*extractorValue) Type() string {
	return "name"
}

type flags struct {
	DriversFile FilePath
	Output      FilePath
	Version     string
	DryRun      bool
	KeepTemp    bool
	TempDir     FilePath
	Source      FilePath
	Extractor   extractorValue
	Package     string
	ListFiles   bool
	Debug       bool

	flagSet *pflag.FlagSet
	output  io.Writer
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		DriversFile: config.DefaultFile,
		Output:      outputDefault,
		Version:     versionDefault,
		Extractor:   extractorRPM2CPIO,
		Package:     rpm.DefaultPackage,
	}

	flags.initFlagset(output)

	return flags
}

// parseArgs parses the given arguments. The first argument is the program
// name.
func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags(output)

	if len(args) > 0 {
		args = args[1:]
	}

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		// Help is printed by the flag set already.
		if err == ErrHelp { //nolint:errorlint
			return err //nolint:wrapcheck
		}

		return &ParseArgsError{msg: "flag parse", err: err}
	}

	if positionalArgs := f.flagSet.Args(); len(positionalArgs) > 0 {
		return f.fail("unexpected arguments: "+strings.Join(positionalArgs, " "), nil)
	}

	if strings.TrimSpace(f.Version) == "" {
		return f.fail("empty package version", nil)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage
	flagSet.SortFlags = false

	flagSet.VarP(
		&f.DriversFile,
		"drivers-file",
		"d",
		"YAML file with the driver patterns of the firmware files to keep",
	)

	flagSet.VarP(
		&f.Output,
		"output-rpm",
		"o",
		"path of the built package",
	)

	flagSet.StringVarP(
		&f.Version,
		"version",
		"V",
		f.Version,
		"version of the built package",
	)

	flagSet.BoolVar(
		&f.DryRun,
		"dry-run",
		f.DryRun,
		"only show what would be kept and removed, do not build a package",
	)

	flagSet.BoolVar(
		&f.KeepTemp,
		"keep-temp",
		f.KeepTemp,
		"do not delete the working directory on exit. Intended for debugging. "+
			"The path is printed on stderr",
	)

	flagSet.Var(
		&f.TempDir,
		"temp-dir",
		"parent directory of the working directory (default is the system "+
			"temporary directory)",
	)

	flagSet.Var(
		&f.Source,
		"source",
		"use this local package file instead of downloading with dnf",
	)

	flagSet.Var(
		&f.Extractor,
		"extractor",
		"package extractor: rpm2cpio (host tools) or native (built-in)",
	)

	flagSet.StringVar(
		&f.Package,
		"package",
		f.Package,
		"name of the package to download with dnf",
	)

	flagSet.BoolVar(
		&f.ListFiles,
		"list-files",
		f.ListFiles,
		"print every kept and removed file",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	f.flagSet = flagSet
	f.output = output
}

// fail fails like pflag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.output, err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.output, usageMessage)
	fmt.Fprintln(f.output, "\nFlags:")
	f.flagSet.PrintDefaults()
}
