// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"bufio"
	"fmt"
	"os"
)

// Info is the package identity and payload description of an RPM file.
type Info struct {
	Name          string
	Version       string
	Release       string
	PayloadFormat string
	Compressor    string
}

// String returns the NVR form "name-version-release".
func (i *Info) String() string {
	return i.Name + "-" + i.Version + "-" + i.Release
}

func newInfo(hdr *header) *Info {
	info := &Info{
		PayloadFormat: payloadFormatCPIO,
		Compressor:    defaultCompressor,
	}

	info.Name, _ = hdr.stringTag(tagName)
	info.Version, _ = hdr.stringTag(tagVersion)
	info.Release, _ = hdr.stringTag(tagRelease)

	if format, ok := hdr.stringTag(tagPayloadFormat); ok && format != "" {
		info.PayloadFormat = format
	}

	if compressor, ok := hdr.stringTag(tagPayloadCompressor); ok && compressor != "" {
		info.Compressor = compressor
	}

	return info
}

// ReadInfo reads the headers of the RPM file at path.
func ReadInfo(path string) (*Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer file.Close()

	hdr, err := readPackageHeader(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return newInfo(hdr), nil
}
