// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import "fmt"

const (
	Major = 0
	Minor = 2
	Patch = 0
)

var String = fmt.Sprintf("randreg/%d.%d.%d", Major, Minor, Patch)
