// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package command runs external programs synchronously and reports failures
// including everything the program wrote to stdout and stderr.
//
// No timeouts are applied. A running program is only killed if the context
// is canceled.
package command
