package graph

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Item is a drawable node with its world transform resolved.
type Item struct {
	Node  *Node
	World mgl32.Mat4
}

// Lighting is the light rig of a frame reduced to one directional light and
// an ambient term.
type Lighting struct {
	HasSun bool
	// ToSun points from the lit surface toward the directional light.
	ToSun     mgl32.Vec3
	SunColor  mgl32.Vec3
	Intensity float32
	Ambient   mgl32.Vec3
}

// DrawList is a frame's drawables in submission order: opaque items first,
// then transparent ones in graph order.
type DrawList struct {
	Opaque      []Item
	Transparent []Item
	Lighting    Lighting
}

// Collect flattens the visible part of root into a draw list. Hidden nodes
// hide their whole subtree.
func Collect(root *Node) DrawList {
	var dl DrawList
	if root != nil {
		dl.collect(root, mgl32.Ident4())
	}
	return dl
}

func (dl *DrawList) collect(n *Node, parent mgl32.Mat4) {
	if !n.Visible {
		return
	}
	world := parent.Mul4(n.Local())
	if n.Mesh != nil {
		it := Item{Node: n, World: world}
		if n.Mesh.Material.Transparent {
			dl.Transparent = append(dl.Transparent, it)
		} else {
			dl.Opaque = append(dl.Opaque, it)
		}
	}
	if l := n.Light; l != nil {
		switch l.Kind {
		case Directional:
			if !dl.Lighting.HasSun {
				pos := world.Col(3).Vec3()
				dir := pos.Sub(l.Target)
				if dir.Len() > 0 {
					dl.Lighting.HasSun = true
					dl.Lighting.ToSun = dir.Normalize()
					dl.Lighting.SunColor = linear(l.Color)
					dl.Lighting.Intensity = l.Intensity
				}
			}
		case Ambient:
			dl.Lighting.Ambient = dl.Lighting.Ambient.Add(linear(l.Color).Mul(l.Intensity))
		}
	}
	for _, c := range n.children {
		dl.collect(c, world)
	}
}

func linear(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}
