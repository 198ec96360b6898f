// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rpmtest builds synthetic RPM files for tests.
package rpmtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Header tags.
const (
	TagName              int32 = 1000
	TagVersion           int32 = 1001
	TagRelease           int32 = 1002
	TagPayloadFormat     int32 = 1124
	TagPayloadCompressor int32 = 1125

	tagSHA1 int32 = 269

	typeString int32 = 6
)

// ModTime is used for entries without modification time.
var ModTime = time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

// Tag is a string header entry.
type Tag struct {
	Tag   int32
	Value string
}

// Entry is a cpio payload entry.
type Entry struct {
	Name    string
	Mode    cpio.FileMode
	Body    string
	ModTime time.Time
	// Links is the link count of the entry. 0 is written as 1.
	Links int
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Mode: cpio.TypeDir | 0o755}
}

// File returns a regular file entry.
func File(name, body string) Entry {
	return Entry{Name: name, Mode: cpio.TypeReg | 0o644, Body: body}
}

// Hardlinks returns the entries of a set of hardlinked regular files the way
// rpm writes them: only the last entry carries the body.
func Hardlinks(body string, names ...string) []Entry {
	entries := make([]Entry, len(names))

	for idx, name := range names {
		entries[idx] = Entry{
			Name:  name,
			Mode:  cpio.TypeReg | 0o644,
			Links: len(names),
		}
	}

	if len(entries) > 0 {
		entries[len(entries)-1].Body = body
	}

	return entries
}

// Symlink returns a symbolic link entry.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Mode: cpio.TypeSymlink | cpio.ModePerm, Body: target}
}

// FirmwareTags returns the main header tags of a firmware package. The
// compressor tag is omitted if compressor is empty.
func FirmwareTags(compressor string) []Tag {
	tags := []Tag{
		{TagName, "linux-firmware"},
		{TagVersion, "20240909"},
		{TagRelease, "1.fc41"},
		{TagPayloadFormat, "cpio"},
	}

	if compressor != "" {
		tags = append(tags, Tag{TagPayloadCompressor, compressor})
	}

	return tags
}

// FirmwareEntries returns a small firmware tree.
func FirmwareEntries() []Entry {
	return []Entry{
		Dir("./lib/firmware"),
		Dir("./lib/firmware/i915"),
		File("./lib/firmware/i915/tgl_dmc.bin", "dmc"),
		File("./lib/firmware/iwlwifi-ty-a0-gf-a0-89.ucode", "iwl"),
		// Parent directory not part of the archive.
		File("./usr/share/licenses/linux-firmware/LICENCE.iwlwifi", "license"),
		Symlink("./lib/firmware/iwlwifi-current.ucode", "iwlwifi-ty-a0-gf-a0-89.ucode"),
	}
}

// Header encodes an RPM header structure with string entries only.
func Header(tb testing.TB, tags ...Tag) []byte {
	tb.Helper()

	var index, store bytes.Buffer

	for _, tag := range tags {
		entry := [4]int32{tag.Tag, typeString, int32(store.Len()), 1} //nolint:gosec
		require.NoError(tb, binary.Write(&index, binary.BigEndian, entry))

		store.WriteString(tag.Value)
		store.WriteByte(0)
	}

	var buf bytes.Buffer

	buf.Write([]byte{0x8e, 0xad, 0xe8, 0x01, 0, 0, 0, 0})
	require.NoError(tb, binary.Write(&buf, binary.BigEndian, uint32(len(tags))))   //nolint:gosec
	require.NoError(tb, binary.Write(&buf, binary.BigEndian, uint32(store.Len()))) //nolint:gosec
	buf.Write(index.Bytes())
	buf.Write(store.Bytes())

	return buf.Bytes()
}

// Payload returns an uncompressed cpio archive of the given entries.
func Payload(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer

	writer := cpio.NewWriter(&buf)

	for _, entry := range entries {
		modTime := entry.ModTime
		if modTime.IsZero() {
			modTime = ModTime
		}

		links := entry.Links
		if links == 0 {
			links = 1
		}

		hdr := &cpio.Header{
			Name:    entry.Name,
			Mode:    entry.Mode,
			Size:    int64(len(entry.Body)),
			ModTime: modTime,
			Links:   links,
		}
		require.NoError(tb, writer.WriteHeader(hdr))

		_, err := writer.Write([]byte(entry.Body))
		require.NoError(tb, err)
	}

	require.NoError(tb, writer.Close())

	return buf.Bytes()
}

// Compress compresses data as rpm does for the given payload compressor.
// Unknown compressors leave the data as is.
func Compress(tb testing.TB, compressor string, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer

	switch compressor {
	case "gzip", "":
		writer := gzip.NewWriter(&buf)
		_, err := writer.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, writer.Close())
	case "xz":
		writer, err := xz.NewWriter(&buf)
		require.NoError(tb, err)
		_, err = writer.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, writer.Close())
	case "lzma":
		writer, err := lzma.NewWriter(&buf)
		require.NoError(tb, err)
		_, err = writer.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, writer.Close())
	case "zstd":
		writer, err := zstd.NewWriter(&buf)
		require.NoError(tb, err)
		_, err = writer.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, writer.Close())
	default:
		buf.Write(data)
	}

	return buf.Bytes()
}

// Build assembles an RPM file from the given main header tags and the
// already compressed payload. The signature header requires padding.
func Build(tb testing.TB, tags []Tag, payload []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer

	lead := make([]byte, 96)
	copy(lead, []byte{0xed, 0xab, 0xee, 0xdb})
	buf.Write(lead)

	// 16 + 16 + 5 bytes, padded by 3 bytes.
	signature := Header(tb, Tag{tagSHA1, "abcd"})
	buf.Write(signature)
	buf.Write(make([]byte, (8-len(signature)%8)%8))

	buf.Write(Header(tb, tags...))
	buf.Write(payload)

	return buf.Bytes()
}

// WriteFile writes data to a new file in dir and returns its path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, data, 0o600))

	return path
}

// WritePackage writes a firmware package with the given compressor and
// entries to a new file in dir and returns its path.
func WritePackage(tb testing.TB, dir, compressor string, entries ...Entry) string {
	tb.Helper()

	payload := Compress(tb, compressor, Payload(tb, entries...))
	data := Build(tb, FirmwareTags(compressor), payload)

	return WriteFile(tb, dir, "linux-firmware-20240909-1.fc41.noarch.rpm", data)
}
