package shaders

import (
	_ "embed"
)

//go:embed scene.wgsl
var SceneWGSL string

// Fragment entry points in SceneWGSL, one per program kind.
const (
	VertexEntry      = "vs_main"
	SolidEntry       = "fs_solid"
	PhongEntry       = "fs_phong"
	VertexColorEntry = "fs_vertex_color"
)
