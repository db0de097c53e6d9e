package shaders

import (
	_ "embed"
)

//go:embed billboard.wgsl
var BillboardWGSL string
