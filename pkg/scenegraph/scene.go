package scenegraph

import (
	"fmt"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/geometry"
)

// Scene is the root node plus the flattened node arena and a per-node
// world-transform cache, rebuilt whenever the tree is mutated. Per 4.1,
// the tree is mutated only during construction (pkg/scenebuild); once a
// batch starts tracing, a Scene is treated as immutable and shared
// read-only across workers.
type Scene struct {
	nodes []Node
	world []Transform
	dirty bool
}

// NewScene returns a scene containing only the root node, named "world",
// with a nil (unbounded) geometry that the caller sets by assigning
// Root().Geometry.
func NewScene() *Scene {
	s := &Scene{nodes: []Node{{Name: "world", Local: Identity(), HasParent: false}}}
	s.recompute()
	return s
}

// AddChild appends a new node as a child of parent and returns its index.
func (s *Scene) AddChild(parent NodeIndex, node Node) (NodeIndex, error) {
	if int(parent) < 0 || int(parent) >= len(s.nodes) {
		return 0, fmt.Errorf("scenegraph: parent index %d out of range", parent)
	}
	node.Parent = parent
	node.HasParent = true
	idx := NodeIndex(len(s.nodes))
	s.nodes = append(s.nodes, node)
	s.nodes[parent].Children = append(s.nodes[parent].Children, idx)
	s.dirty = true
	s.recompute()
	return idx, nil
}

// Node returns the node at idx.
func (s *Scene) Node(idx NodeIndex) *Node {
	return &s.nodes[idx]
}

// Root returns the world node.
func (s *Scene) Root() *Node {
	return &s.nodes[Root]
}

// NumNodes returns the number of nodes in the arena.
func (s *Scene) NumNodes() int {
	return len(s.nodes)
}

// WorldTransform returns the cached world transform for idx.
func (s *Scene) WorldTransform(idx NodeIndex) Transform {
	if s.dirty {
		s.recompute()
	}
	return s.world[idx]
}

// recompute rebuilds the world-transform cache by walking the tree
// depth-first from the root, composing each node's local transform with
// its parent's world transform.
func (s *Scene) recompute() {
	s.world = make([]Transform, len(s.nodes))
	s.world[Root] = s.nodes[Root].Local
	var walk func(idx NodeIndex)
	walk = func(idx NodeIndex) {
		for _, child := range s.nodes[idx].Children {
			s.world[child] = s.world[idx].Compose(s.nodes[child].Local)
			walk(child)
		}
	}
	walk(Root)
	s.dirty = false
}

// Walk visits every node in depth-first order starting from the root.
func (s *Scene) Walk(visit func(idx NodeIndex, node *Node)) {
	var walk func(idx NodeIndex)
	walk = func(idx NodeIndex) {
		visit(idx, &s.nodes[idx])
		for _, child := range s.nodes[idx].Children {
			walk(child)
		}
	}
	walk(Root)
}

// LocalPoint transforms a world-space point into idx's local frame.
func (s *Scene) LocalPoint(idx NodeIndex, point core.Vec3) core.Vec3 {
	return s.WorldTransform(idx).Inverse().Apply(point)
}

// ContainerOf performs container resolution per 4.2/4.7: walks the tree
// depth-first and returns the deepest node whose geometry strictly
// contains point in world space, falling back to the root.
func (s *Scene) ContainerOf(point core.Vec3) NodeIndex {
	deepest := Root
	var walk func(idx NodeIndex)
	walk = func(idx NodeIndex) {
		node := &s.nodes[idx]
		if node.Geometry != nil {
			local := s.LocalPoint(idx, point)
			if node.Geometry.Contains(local) == geometry.Inside {
				deepest = idx
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(Root)
	return deepest
}

// Validate checks the invariants scenebuild must establish before a
// Scene is handed to a tracer: exactly one root (implicit in this
// representation) whose geometry, if present, contains every other
// node's geometry in world space. The check is that no corner of a node's
// bounding box lies outside the root geometry; a corner on the root's
// surface is accepted.
func (s *Scene) Validate() error {
	root := s.Root()
	if root.Geometry == nil {
		return nil
	}
	var err error
	s.Walk(func(idx NodeIndex, node *Node) {
		if idx == Root || node.Geometry == nil || err != nil {
			return
		}
		box := node.Geometry.BoundingBox()
		world := s.WorldTransform(idx)
		for _, corner := range box.Corners() {
			worldCorner := world.ToWorld(corner)
			localToRoot := s.LocalPoint(Root, worldCorner)
			if root.Geometry.Contains(localToRoot) == geometry.Outside {
				err = fmt.Errorf("scenegraph: node %q extends outside the root geometry", node.Name)
				return
			}
		}
	})
	return err
}
