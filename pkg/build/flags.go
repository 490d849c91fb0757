// SPDX-License-Identifier: MIT
//
// Package build exposes the metadata stamped into the latencycalc binary at
// link time (name, version, commit and build time). The values are injected
// with -ldflags, for example:
//
//	go build -ldflags "-X github.com/nicola-lunghi/latencycalc/pkg/build.buildVersion=0.2.0"
//
// A development build carries no stamps at all and reports the defaults.
package build

import "fmt"

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:        "latencycalc",
		Description: "Measure round-trip audio latency across every supported sample rate and block size",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize copies the ldflags values into the build information. A binary
// without any stamp keeps the development defaults; a partially stamped
// binary is rejected so broken release pipelines are caught early.
func Initialize() error {
	stamps := []struct {
		name  string
		value string
	}{
		{"BuildName", buildName},
		{"BuildTime", buildTime},
		{"BuildCommit", buildCommit},
		{"BuildVersion", buildVersion},
	}

	set := 0
	for _, s := range stamps {
		if s.value != "" {
			set++
		}
	}
	if set == 0 {
		return nil
	}
	for _, s := range stamps {
		if s.value == "" {
			return fmt.Errorf("%s is required", s.name)
		}
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
