package scenegraph

import (
	"github.com/opticore/lumentrace/pkg/geometry"
	"github.com/opticore/lumentrace/pkg/lightsource"
	"github.com/opticore/lumentrace/pkg/material"
)

// NodeIndex identifies a node in a Scene's arena. The zero value is the
// root.
type NodeIndex int

// Root is the index of the world node, always present.
const Root NodeIndex = 0

// Node is one entry in the scene graph: a name, a local transform, an
// optional attached geometry/material/light, and links to its parent and
// children by index rather than by pointer.
type Node struct {
	Name      string
	Local     Transform
	Geometry  geometry.Shape // nil for a pure grouping node
	Material  *material.Material
	Light     *lightsource.LightSource
	Parent    NodeIndex
	HasParent bool
	Children  []NodeIndex
}
