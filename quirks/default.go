package quirks

import "embed"

//go:embed rules
var Embedded embed.FS
