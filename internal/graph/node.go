// Package graph holds the scene-graph data a scene owns and hands to the renderer:
// nodes with a transform, optional drawable or light payloads, a perspective camera,
// and the decoded texture and environment resources the asset loader produces.
package graph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of a scene graph. A node belongs to at most one parent;
// the root of a scene is owned by exactly one scene.
type Node struct {
	Name        string
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Orientation mgl32.Quat
	Visible     bool

	CastShadow    bool
	ReceiveShadow bool

	// At most one payload is set.
	Mesh  *Mesh
	Light *Light

	// Background and Environment are only read on a scene root.
	Background  *Environment
	Environment *Environment

	parent   *Node
	children []*Node
}

// NewNode returns a visible node with unit scale and identity orientation.
func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		Scale:       mgl32.Vec3{1, 1, 1},
		Orientation: mgl32.QuatIdent(),
		Visible:     true,
	}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node named name in n's subtree.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// SetScale sets a uniform scale.
func (n *Node) SetScale(s float32) {
	n.Scale = mgl32.Vec3{s, s, s}
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := n.Orientation.Mat4()
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// World returns the node's transform relative to the graph root.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// AxisAngle returns the node orientation as a unit axis and an angle in radians.
// The identity orientation yields the +Y axis and a zero angle.
func (n *Node) AxisAngle() (mgl32.Vec3, float32) {
	q := n.Orientation.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < 1e-7 {
		return mgl32.Vec3{0, 1, 0}, 0
	}
	return q.V.Mul(1 / s), 2 * math32.Atan2(s, q.W)
}
