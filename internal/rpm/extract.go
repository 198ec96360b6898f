// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aibor/fwminimize/internal/command"
)

// CPIOExtractor extracts RPM files by piping the output of rpm2cpio into
// cpio running in the target directory.
type CPIOExtractor struct {
	Runner command.Runner
}

// Extract unpacks the archive into dir.
func (e *CPIOExtractor) Extract(ctx context.Context, archive, dir string) error {
	producer := command.New("rpm2cpio", archive)
	consumer := command.New("cpio", "-idm", "--quiet", "--no-absolute-filenames").
		InDir(dir)

	err := e.Runner.Pipe(ctx, producer, consumer)
	if err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}

	return nil
}

// NativeExtractor extracts RPM files in-process. It supports cpio payloads
// compressed with gzip, xz, lzma, zstd or bzip2, or uncompressed.
type NativeExtractor struct{}

// Extract unpacks the archive into dir.
func (NativeExtractor) Extract(ctx context.Context, archive, dir string) error {
	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open package: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	hdr, err := readPackageHeader(reader)
	if err != nil {
		return fmt.Errorf("read %s: %w", archive, err)
	}

	info := newInfo(hdr)
	if info.PayloadFormat != payloadFormatCPIO {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.PayloadFormat)
	}

	slog.Debug("Unpack payload",
		slog.String("package", info.String()),
		slog.String("compressor", info.Compressor),
	)

	payload, err := decompress(reader, info.Compressor)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	defer payload.Close()

	err = unpack(ctx, payload, dir)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", archive, err)
	}

	return nil
}
