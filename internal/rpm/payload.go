// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

const (
	// Payload compressor used by rpm if the header does not name one.
	defaultCompressor = "gzip"

	payloadFormatCPIO = "cpio"
)

// decompress returns a reader for the decompressed payload read from r.
func decompress(r io.Reader, compressor string) (io.ReadCloser, error) {
	switch compressor {
	case "", defaultCompressor:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}

		return reader, nil
	case "xz":
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return io.NopCloser(reader), nil
	case "lzma":
		reader, err := lzma.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("lzma: %w", err)
		}

		return io.NopCloser(reader), nil
	case "zstd":
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return decoder.IOReadCloser(), nil
	case "bzip2":
		return io.NopCloser(bzip2.NewReader(r)), nil
	case "none", "identity":
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompressor, compressor)
	}
}
