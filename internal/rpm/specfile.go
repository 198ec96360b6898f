// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rpm

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

// PackageName is the name of the built package.
const PackageName = "linux-firmware-minimal"

const changelogDateLayout = "Mon Jan 02 2006"

//nolint:gochecknoglobals
var specTemplate = template.Must(template.New("spec").Parse(
	`Name:           {{.Name}}
Version:        {{.Version}}
Release:        {{.Release}}%{?dist}
Summary:        Minimal set of firmware files for selected drivers
License:        Redistributable, no modification permitted
URL:            https://git.kernel.org/pub/scm/linux/kernel/git/firmware/linux-firmware.git
BuildArch:      noarch

%description
Reduced linux-firmware package containing only the firmware files of
selected drivers.

%prep

%build

%install
mkdir -p %{buildroot}/lib
cp -a "{{.Tree}}/lib/firmware" %{buildroot}/lib/

%files
/lib/firmware

%changelog
* {{.ChangelogDate}} Firmware Minimizer <noreply@localhost> - {{.Version}}-{{.Release}}
- Generated from the filtered linux-firmware tree
`))

// SpecFile describes the rpmbuild spec of the reduced package.
type SpecFile struct {
	Name    string
	Version string
	Release string
	Date    time.Time
	// Tree is the directory containing the lib/firmware tree to package.
	Tree string
}

// ChangelogDate returns the date in the form required by the changelog.
func (s SpecFile) ChangelogDate() string {
	return s.Date.Format(changelogDateLayout)
}

// WriteTo renders the spec into w.
func (s SpecFile) WriteTo(w io.Writer) (int64, error) {
	counter := &countingWriter{w: w}

	err := specTemplate.Execute(counter, s)
	if err != nil {
		return counter.n, fmt.Errorf("render spec: %w", err)
	}

	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err //nolint:wrapcheck
}
