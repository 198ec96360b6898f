// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aibor/fwminimize/internal/command"
	"github.com/aibor/fwminimize/internal/rpm"
	"github.com/aibor/fwminimize/internal/rpm/rpmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeExtractor_Extract(t *testing.T) {
	for _, compressor := range []string{"", "gzip", "xz", "lzma", "zstd", "none"} {
		t.Run("compressor "+compressor, func(t *testing.T) {
			archive := rpmtest.WritePackage(t, t.TempDir(), compressor,
				rpmtest.FirmwareEntries()...)
			dir := t.TempDir()

			err := rpm.NativeExtractor{}.Extract(t.Context(), archive, dir)
			require.NoError(t, err)

			firmware := filepath.Join(dir, "lib", "firmware")

			content, err := os.ReadFile(filepath.Join(firmware, "i915", "tgl_dmc.bin"))
			require.NoError(t, err)
			assert.Equal(t, "dmc", string(content))

			content, err = os.ReadFile(filepath.Join(firmware, "iwlwifi-ty-a0-gf-a0-89.ucode"))
			require.NoError(t, err)
			assert.Equal(t, "iwl", string(content))

			content, err = os.ReadFile(filepath.Join(dir, "usr", "share", "licenses",
				"linux-firmware", "LICENCE.iwlwifi"))
			require.NoError(t, err)
			assert.Equal(t, "license", string(content))

			target, err := os.Readlink(filepath.Join(firmware, "iwlwifi-current.ucode"))
			require.NoError(t, err)
			assert.Equal(t, "iwlwifi-ty-a0-gf-a0-89.ucode", target)
		})
	}
}

func TestNativeExtractor_ExtractPreservesModeAndTime(t *testing.T) {
	mtime := time.Date(2024, 9, 9, 12, 0, 0, 0, time.UTC)
	entry := rpmtest.File("./lib/firmware/amdgpu/navi10_sos.bin", "sos")
	entry.Mode = entry.Mode&^0o777 | 0o640
	entry.ModTime = mtime

	payload := rpmtest.Compress(t, "gzip", rpmtest.Payload(t, entry))
	archive := rpmtest.WriteFile(t, t.TempDir(), "linux-firmware.rpm",
		rpmtest.Build(t, rpmtest.FirmwareTags("gzip"), payload))
	dir := t.TempDir()

	err := rpm.NativeExtractor{}.Extract(t.Context(), archive, dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "lib", "firmware", "amdgpu", "navi10_sos.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, mtime.Equal(info.ModTime()), "modification time %s", info.ModTime())
}

func TestNativeExtractor_ExtractErrors(t *testing.T) {
	tests := []struct {
		name        string
		archive     func(t *testing.T) []byte
		expectedErr error
	}{
		{
			name: "not an rpm",
			archive: func(_ *testing.T) []byte {
				return make([]byte, 200)
			},
			expectedErr: rpm.ErrNotRPM,
		},
		{
			name: "truncated lead",
			archive: func(_ *testing.T) []byte {
				return []byte{0xed, 0xab, 0xee, 0xdb}
			},
			expectedErr: rpm.ErrNotRPM,
		},
		{
			name: "truncated header",
			archive: func(t *testing.T) []byte {
				data := rpmtest.Build(t, rpmtest.FirmwareTags("gzip"), nil)
				return data[:len(data)-3]
			},
			expectedErr: rpm.ErrInvalidHeader,
		},
		{
			name: "unsupported compressor",
			archive: func(t *testing.T) []byte {
				return rpmtest.Build(t, rpmtest.FirmwareTags("brotli"), []byte("data"))
			},
			expectedErr: rpm.ErrUnsupportedCompressor,
		},
		{
			name: "unsupported payload format",
			archive: func(t *testing.T) []byte {
				tags := rpmtest.FirmwareTags("none")
				tags[3].Value = "ustar"

				return rpmtest.Build(t, tags, []byte("data"))
			},
			expectedErr: rpm.ErrUnsupportedFormat,
		},
		{
			name: "path traversal",
			archive: func(t *testing.T) []byte {
				payload := rpmtest.Payload(t, rpmtest.File("./../../etc/evil", "evil"))
				return rpmtest.Build(t, rpmtest.FirmwareTags("none"), payload)
			},
			expectedErr: rpm.ErrUnsafePath,
		},
		{
			name: "hardlink set without data entry",
			archive: func(t *testing.T) []byte {
				links := rpmtest.Hardlinks("qca", "./a.bin", "./b.bin", "./c.bin")
				payload := rpmtest.Payload(t, links[:2]...)

				return rpmtest.Build(t, rpmtest.FirmwareTags("none"), payload)
			},
			expectedErr: rpm.ErrIncompleteHardlink,
		},
		{
			name: "hardlink sets interleaved",
			archive: func(t *testing.T) []byte {
				first := rpmtest.Hardlinks("one", "./a.bin", "./b.bin")
				second := rpmtest.Hardlinks("two", "./c.bin", "./d.bin", "./e.bin")
				payload := rpmtest.Payload(t, first[0], second[2])

				return rpmtest.Build(t, rpmtest.FirmwareTags("none"), payload)
			},
			expectedErr: rpm.ErrIncompleteHardlink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := rpmtest.WriteFile(t, t.TempDir(), "linux-firmware.rpm", tt.archive(t))

			err := rpm.NativeExtractor{}.Extract(t.Context(), archive, t.TempDir())
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestNativeExtractor_ExtractHardlinks(t *testing.T) {
	entries := []rpmtest.Entry{rpmtest.Dir("./lib/firmware/qca")}
	entries = append(entries, rpmtest.Hardlinks("nvm",
		"./lib/firmware/qca/nvm_usb_00000302.bin",
		"./lib/firmware/qca/nvm_usb_00000302_eid.bin",
		"./lib/firmware/qca/nvm_usb_00000302_gf.bin",
	)...)
	entries = append(entries, rpmtest.Hardlinks("",
		"./lib/firmware/empty-a",
		"./lib/firmware/empty-b",
	)...)

	archive := rpmtest.WritePackage(t, t.TempDir(), "xz", entries...)
	dir := t.TempDir()

	err := rpm.NativeExtractor{}.Extract(t.Context(), archive, dir)
	require.NoError(t, err)

	qca := filepath.Join(dir, "lib", "firmware", "qca")

	var infos []os.FileInfo

	for _, name := range []string{
		"nvm_usb_00000302.bin",
		"nvm_usb_00000302_eid.bin",
		"nvm_usb_00000302_gf.bin",
	} {
		path := filepath.Join(qca, name)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "nvm", string(content), name)

		info, err := os.Stat(path)
		require.NoError(t, err)

		infos = append(infos, info)
	}

	assert.True(t, os.SameFile(infos[0], infos[1]))
	assert.True(t, os.SameFile(infos[0], infos[2]))

	emptyA, err := os.Stat(filepath.Join(dir, "lib", "firmware", "empty-a"))
	require.NoError(t, err)
	emptyB, err := os.Stat(filepath.Join(dir, "lib", "firmware", "empty-b"))
	require.NoError(t, err)

	assert.Zero(t, emptyB.Size())
	assert.True(t, os.SameFile(emptyA, emptyB))
}

func TestNativeExtractor_ExtractSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	payload := rpmtest.Payload(t,
		rpmtest.Symlink("./lib/firmware", outside),
		rpmtest.File("./lib/firmware/evil.bin", "evil"),
	)
	archive := rpmtest.WriteFile(t, t.TempDir(), "linux-firmware.rpm",
		rpmtest.Build(t, rpmtest.FirmwareTags("none"), payload))

	err := rpm.NativeExtractor{}.Extract(t.Context(), archive, t.TempDir())
	require.ErrorIs(t, err, rpm.ErrUnsafePath)

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNativeExtractor_ExtractCanceled(t *testing.T) {
	archive := rpmtest.WritePackage(t, t.TempDir(), "gzip", rpmtest.FirmwareEntries()...)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := rpm.NativeExtractor{}.Extract(ctx, archive, dir)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNativeExtractor_ExtractMissingArchive(t *testing.T) {
	err := rpm.NativeExtractor{}.Extract(t.Context(),
		filepath.Join(t.TempDir(), "missing.rpm"), t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCPIOExtractor_Extract(t *testing.T) {
	runner := &fakeRunner{}
	extractor := &rpm.CPIOExtractor{Runner: runner}

	err := extractor.Extract(t.Context(), "/download/linux-firmware.rpm", "/extract")
	require.NoError(t, err)

	require.Len(t, runner.commands, 2)

	producer, consumer := runner.commands[0], runner.commands[1]
	assert.Equal(t, []string{"rpm2cpio", "/download/linux-firmware.rpm"}, producer.Argv())
	assert.Empty(t, producer.Dir)
	assert.Equal(t, "cpio", consumer.Name)
	assert.Contains(t, consumer.Args, "-idm")
	assert.Equal(t, "/extract", consumer.Dir)
}

func TestCPIOExtractor_ExtractFailure(t *testing.T) {
	cmdErr := &command.Error{Args: []string{"cpio"}, ExitCode: 2}
	runner := &fakeRunner{
		pipe: func(_, _ *command.Command) error { return cmdErr },
	}
	extractor := &rpm.CPIOExtractor{Runner: runner}

	err := extractor.Extract(t.Context(), "/download/linux-firmware.rpm", "/extract")
	require.ErrorIs(t, err, cmdErr)
	assert.ErrorContains(t, err, "/download/linux-firmware.rpm")
}

func TestReadInfo(t *testing.T) {
	archive := rpmtest.WriteFile(t, t.TempDir(), "linux-firmware.rpm",
		rpmtest.Build(t, rpmtest.FirmwareTags("zstd"), nil))

	info, err := rpm.ReadInfo(archive)
	require.NoError(t, err)

	expected := &rpm.Info{
		Name:          "linux-firmware",
		Version:       "20240909",
		Release:       "1.fc41",
		PayloadFormat: "cpio",
		Compressor:    "zstd",
	}
	assert.Equal(t, expected, info)
	assert.Equal(t, "linux-firmware-20240909-1.fc41", info.String())
}

func TestReadInfo_DefaultCompressor(t *testing.T) {
	archive := rpmtest.WriteFile(t, t.TempDir(), "linux-firmware.rpm",
		rpmtest.Build(t, rpmtest.FirmwareTags(""), nil))

	info, err := rpm.ReadInfo(archive)
	require.NoError(t, err)
	assert.Equal(t, "gzip", info.Compressor)
}
