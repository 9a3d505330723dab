// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other pagediff packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version stamped by the build, or "dev".
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent is sent by the HTTP capture source.
func UserAgent() string {
	return "pagediff/" + Version
}
