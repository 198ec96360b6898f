// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rpm provides the RPM specific steps of building a reduced firmware
// package: fetching the upstream package, extracting it into a directory
// tree and packaging a directory tree as new RPM.
//
// Most implementations delegate to host tools (dnf, rpm2cpio, cpio,
// rpmbuild, fpm). [NativeExtractor] reads RPM files in-process and does not
// need any host tools.
package rpm
