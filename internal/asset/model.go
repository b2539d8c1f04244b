package asset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/graph"
)

var errBadModel = errors.New("malformed model")

type gltfDoc struct {
	Scene  *int        `json:"scene"`
	Scenes []gltfScene `json:"scenes"`
	Nodes  []gltfNode  `json:"nodes"`
}

type gltfScene struct {
	Nodes []int `json:"nodes"`
}

type gltfNode struct {
	Name        string    `json:"name"`
	Children    []int     `json:"children"`
	Translation []float32 `json:"translation"`
	Rotation    []float32 `json:"rotation"`
	Scale       []float32 `json:"scale"`
}

// parseGLTF builds the node hierarchy of a glTF JSON document. Geometry is
// left to the backend; only names and transforms are read.
func parseGLTF(data []byte) (*graph.Node, error) {
	var doc gltfDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadModel, err)
	}

	roots, err := gltfRoots(&doc)
	if err != nil {
		return nil, err
	}
	built := make([]*graph.Node, len(doc.Nodes))
	var build func(i int) (*graph.Node, error)
	build = func(i int) (*graph.Node, error) {
		if i < 0 || i >= len(doc.Nodes) {
			return nil, fmt.Errorf("%w: node index %d", errBadModel, i)
		}
		if built[i] != nil {
			return nil, fmt.Errorf("%w: node %d referenced twice", errBadModel, i)
		}
		src := doc.Nodes[i]
		n := graph.NewNode(src.Name)
		if len(src.Translation) == 3 {
			n.Position = mgl32.Vec3{src.Translation[0], src.Translation[1], src.Translation[2]}
		}
		if len(src.Rotation) == 4 {
			n.Orientation = mgl32.Quat{W: src.Rotation[3], V: mgl32.Vec3{src.Rotation[0], src.Rotation[1], src.Rotation[2]}}
		}
		if len(src.Scale) == 3 {
			n.Scale = mgl32.Vec3{src.Scale[0], src.Scale[1], src.Scale[2]}
		}
		built[i] = n
		for _, c := range src.Children {
			child, err := build(c)
			if err != nil {
				return nil, err
			}
			n.Add(child)
		}
		return n, nil
	}

	root := graph.NewNode("")
	for _, i := range roots {
		n, err := build(i)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// gltfRoots returns the top-level nodes of the default scene, or every node
// nobody references when the document has no scenes.
func gltfRoots(doc *gltfDoc) ([]int, error) {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil {
			s = *doc.Scene
		}
		if s < 0 || s >= len(doc.Scenes) {
			return nil, fmt.Errorf("%w: scene index %d", errBadModel, s)
		}
		return doc.Scenes[s].Nodes, nil
	}
	referenced := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !referenced[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

// parseOBJ turns each "o" or "g" statement of a Wavefront OBJ file into a
// child node.
func parseOBJ(data []byte) (*graph.Node, error) {
	root := graph.NewNode("")
	vertices := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "o", "g":
			name := strings.Join(fields[1:], " ")
			if name == "" {
				name = fmt.Sprintf("object%d", len(root.Children()))
			}
			root.Add(graph.NewNode(name))
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: vertex %q", errBadModel, sc.Text())
			}
			vertices++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if vertices == 0 {
		return nil, fmt.Errorf("%w: no vertices", errBadModel)
	}
	return root, nil
}
