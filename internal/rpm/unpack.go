// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
)

const (
	typeMask cpio.FileMode = 0o170000

	// Owner permissions always granted on created directories, so the
	// unpacker is able to populate them.
	ownerDirPerm = 0o700
)

// unpacker materializes cpio entries below a directory. Paths are resolved
// through an [os.Root], so no entry can write through symlinks pointing
// outside of it.
//
// Entries of a hardlink set carry the data only on the last entry. The
// entries before are held back and linked to it once it is written.
type unpacker struct {
	dir  string
	root *os.Root

	links    []string
	linksHdr *cpio.Header
}

// unpack extracts the cpio archive read from r into dir. The context is
// checked before each entry.
func unpack(ctx context.Context, r io.Reader, dir string) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer root.Close()

	u := &unpacker{dir: dir, root: root}
	reader := cpio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			if len(u.links) > 0 {
				return fmt.Errorf("%w: %s", ErrIncompleteHardlink, u.links[0])
			}

			return nil
		}

		if err != nil {
			return fmt.Errorf("read entry: %w", err)
		}

		err = u.entry(hdr, reader)
		if err != nil {
			return fmt.Errorf("entry %s: %w", hdr.Name, err)
		}
	}
}

func (u *unpacker) entry(hdr *cpio.Header, body io.Reader) error {
	name, err := entryName(hdr.Name)
	if err != nil {
		return err
	}

	if name == "." {
		return nil
	}

	switch hdr.Mode & typeMask {
	case cpio.TypeDir:
		return u.mkdirAll(name, fs.FileMode(hdr.Mode&cpio.ModePerm))
	case cpio.TypeReg:
		return u.regular(name, hdr, body)
	case cpio.TypeSymlink:
		return u.symlink(name, hdr, body)
	default:
		slog.Debug("Skip unsupported archive entry",
			slog.String("name", hdr.Name),
			slog.String("mode", fmt.Sprintf("%o", hdr.Mode)),
		)

		return nil
	}
}

func (u *unpacker) mkdirAll(name string, perm fs.FileMode) error {
	current := ""

	for elem := range strings.SplitSeq(name, "/") {
		current = filepath.Join(current, elem)

		err := u.root.Mkdir(current, perm|ownerDirPerm)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	// Resolving the directory through the root fails if any component is
	// a symlink leaving it.
	info, err := u.root.Stat(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsafePath, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnsafePath, name)
	}

	return nil
}

func (u *unpacker) ensureParent(name string) error {
	parent := filepath.Dir(name)
	if parent == "." {
		return nil
	}

	return u.mkdirAll(parent, 0o755)
}

func (u *unpacker) regular(name string, hdr *cpio.Header, body io.Reader) error {
	if hdr.Links <= 1 {
		return u.writeFile(name, hdr, body)
	}

	if len(u.links) > 0 && u.linksHdr.Links != hdr.Links {
		return fmt.Errorf("%w: %s", ErrIncompleteHardlink, u.links[0])
	}

	if hdr.Size > 0 {
		return u.writeLinked(name, hdr, body)
	}

	u.links = append(u.links, name)
	u.linksHdr = hdr

	// All entries of a set of empty files are seen without any data.
	if len(u.links) == hdr.Links {
		last := u.links[len(u.links)-1]
		u.links = u.links[:len(u.links)-1]

		return u.writeLinked(last, hdr, body)
	}

	return nil
}

// writeLinked writes the file with the data of a hardlink set and links all
// held back entries of the set to it.
func (u *unpacker) writeLinked(name string, hdr *cpio.Header, body io.Reader) error {
	err := u.writeFile(name, hdr, body)
	if err != nil {
		return err
	}

	target := filepath.Join(u.dir, name)

	for _, link := range u.links {
		err := u.ensureParent(link)
		if err != nil {
			return err
		}

		path := filepath.Join(u.dir, link)

		err = os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("replace existing: %w", err)
		}

		err = os.Link(target, path)
		if err != nil {
			return fmt.Errorf("create hardlink %s: %w", link, err)
		}
	}

	u.links = nil
	u.linksHdr = nil

	return nil
}

func (u *unpacker) writeFile(name string, hdr *cpio.Header, body io.Reader) error {
	err := u.ensureParent(name)
	if err != nil {
		return err
	}

	file, err := u.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		fs.FileMode(hdr.Mode&cpio.ModePerm))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	_, err = io.Copy(file, body)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("write file: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	if !hdr.ModTime.IsZero() {
		err := os.Chtimes(filepath.Join(u.dir, name), hdr.ModTime, hdr.ModTime)
		if err != nil {
			return fmt.Errorf("set modification time: %w", err)
		}
	}

	return nil
}

func (u *unpacker) symlink(name string, hdr *cpio.Header, body io.Reader) error {
	target := hdr.Linkname
	if target == "" {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read link target: %w", err)
		}

		target = string(data)
	}

	err := u.ensureParent(name)
	if err != nil {
		return err
	}

	path := filepath.Join(u.dir, name)

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace existing: %w", err)
	}

	err = os.Symlink(target, path)
	if err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	return nil
}

// entryName returns the cleaned relative path of an archive entry. Archive
// names usually start with "./" or "/". Names that would escape the target
// directory are rejected.
func entryName(name string) (string, error) {
	relative := strings.TrimLeft(name, "/")
	if relative == "" {
		return ".", nil
	}

	if !filepath.IsLocal(relative) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	return filepath.Clean(relative), nil
}
