// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	leadSize        = 96
	headerIntroSize = 16
	indexEntrySize  = 16
	headerAlignment = 8

	// Upper bounds protecting against absurd allocations for corrupt files.
	maxIndexEntries = 1 << 16
	maxStoreSize    = 256 << 20
)

// Header tags used by this package.
const (
	tagName              int32 = 1000
	tagVersion           int32 = 1001
	tagRelease           int32 = 1002
	tagPayloadFormat     int32 = 1124
	tagPayloadCompressor int32 = 1125
)

// Header entry types that carry strings.
const (
	typeString      int32 = 6
	typeI18NString  int32 = 9
	typeStringArray int32 = 8
)

var (
	leadMagic   = []byte{0xed, 0xab, 0xee, 0xdb}
	headerMagic = []byte{0x8e, 0xad, 0xe8, 0x01}
)

type indexEntry struct {
	Tag    int32
	Type   int32
	Offset int32
	Count  int32
}

// header is a parsed RPM header structure: an index of tags pointing into a
// data store.
type header struct {
	index []indexEntry
	store []byte
}

// size returns the number of bytes the header occupies in the file.
func (h *header) size() int {
	return headerIntroSize + len(h.index)*indexEntrySize + len(h.store)
}

// stringTag returns the value of the given tag if it is present and of a
// string type. For string arrays, the first element is returned.
func (h *header) stringTag(tag int32) (string, bool) {
	for _, entry := range h.index {
		if entry.Tag != tag {
			continue
		}

		switch entry.Type {
		case typeString, typeI18NString, typeStringArray:
		default:
			return "", false
		}

		if entry.Offset < 0 || int(entry.Offset) >= len(h.store) {
			return "", false
		}

		value := h.store[entry.Offset:]
		if end := bytes.IndexByte(value, 0); end >= 0 {
			value = value[:end]
		}

		return string(value), true
	}

	return "", false
}

func readLead(r io.Reader) error {
	lead := make([]byte, leadSize)

	_, err := io.ReadFull(r, lead)
	if err != nil {
		return fmt.Errorf("%w: read lead: %w", ErrNotRPM, err)
	}

	if !bytes.HasPrefix(lead, leadMagic) {
		return fmt.Errorf("%w: invalid magic %x", ErrNotRPM, lead[:len(leadMagic)])
	}

	return nil
}

func readHeader(r io.Reader) (*header, error) {
	intro := make([]byte, headerIntroSize)

	_, err := io.ReadFull(r, intro)
	if err != nil {
		return nil, fmt.Errorf("%w: read intro: %w", ErrInvalidHeader, err)
	}

	if !bytes.Equal(intro[:len(headerMagic)], headerMagic) {
		return nil, fmt.Errorf("%w: invalid magic %x", ErrInvalidHeader, intro[:len(headerMagic)])
	}

	count := binary.BigEndian.Uint32(intro[8:12])
	storeSize := binary.BigEndian.Uint32(intro[12:16])

	if count > maxIndexEntries || storeSize > maxStoreSize {
		return nil, fmt.Errorf("%w: too large (%d entries, %d bytes)",
			ErrInvalidHeader, count, storeSize)
	}

	hdr := &header{
		index: make([]indexEntry, count),
		store: make([]byte, storeSize),
	}

	err = binary.Read(r, binary.BigEndian, hdr.index)
	if err != nil {
		return nil, fmt.Errorf("%w: read index: %w", ErrInvalidHeader, err)
	}

	_, err = io.ReadFull(r, hdr.store)
	if err != nil {
		return nil, fmt.Errorf("%w: read store: %w", ErrInvalidHeader, err)
	}

	return hdr, nil
}

// readPackageHeader reads lead, signature and the main header from r. On
// success, r is positioned at the start of the payload.
func readPackageHeader(r io.Reader) (*header, error) {
	err := readLead(r)
	if err != nil {
		return nil, err
	}

	signature, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}

	// The main header starts aligned after the signature.
	if mod := signature.size() % headerAlignment; mod != 0 {
		_, err := io.CopyN(io.Discard, r, int64(headerAlignment-mod))
		if err != nil {
			return nil, fmt.Errorf("%w: signature padding: %w", ErrInvalidHeader, err)
		}
	}

	hdr, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("main: %w", err)
	}

	return hdr, nil
}
