package overlay

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-deck/internal/ui/style"
)

type recordTarget struct {
	hover    []bool
	selected []mgl32.Vec3
}

func (r *recordTarget) SetHovering(v bool) { r.hover = append(r.hover, v) }
func (r *recordTarget) SelectTarget(p mgl32.Vec3) { r.selected = append(r.selected, p) }

func testMenu(opened *[]string) *Menu {
	m := New([]Item{
		{Label: "About", Anchor: mgl32.Vec3{-2, 1.5, 0}},
		{Label: "Projects", Anchor: mgl32.Vec3{2, 1, -1}},
		{Label: "Portfolio", Scene: "PortfolioScene"},
	}, func(s string) { *opened = append(*opened, s) })

	box := style.Default()
	box.Left, box.Top, box.Width, box.Gap = 10, 100, 200, 10
	item := style.Default()
	item.Height = 40
	m.Layout(1000, 800, box, item)
	return m
}

func TestLayout(t *testing.T) {
	var opened []string
	m := testMenu(&opened)
	assert.Equal(t, []Rect{
		{X: 10, Y: 100, W: 200, H: 40},
		{X: 10, Y: 150, W: 200, H: 40},
		{X: 10, Y: 200, W: 200, H: 40},
	}, m.Boxes())
}

func TestLayoutPercentAndDefaults(t *testing.T) {
	m := New([]Item{{Label: "a"}, {Label: "b"}}, nil)
	box := style.Default()
	box.LeftPct, box.TopPct = 50, 50
	item := style.Default()
	item.FontSize, item.Padding = 20, 5

	m.Layout(1240, 600, box, item)
	b := m.Boxes()
	require.Len(t, b, 2)
	// items are 30 high with a 6 pixel gap: 66 in total
	assert.Equal(t, Rect{X: 500, Y: 267, W: 240, H: 30}, b[0])
	assert.Equal(t, float32(303), b[1].Y)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14.9, 14.9))
	assert.False(t, r.Contains(15, 12))
	assert.False(t, r.Contains(9, 12))
}

func TestHoverTransitionsOnly(t *testing.T) {
	var opened []string
	m := testMenu(&opened)
	tgt := &recordTarget{}

	m.Pointer(500, 500, false, tgt)
	assert.Empty(t, tgt.hover)
	assert.Equal(t, -1, m.Hovered())

	m.Pointer(20, 110, false, tgt)
	m.Pointer(30, 160, false, tgt)
	assert.Equal(t, 1, m.Hovered())
	m.Pointer(500, 500, false, tgt)
	assert.Equal(t, []bool{true, false}, tgt.hover)
}

func TestClickSelectsAnchorOrOpensScene(t *testing.T) {
	var opened []string
	m := testMenu(&opened)
	tgt := &recordTarget{}

	m.Pointer(20, 160, true, tgt)
	assert.Equal(t, []mgl32.Vec3{{2, 1, -1}}, tgt.selected)

	m.Pointer(20, 210, true, tgt)
	assert.Equal(t, []string{"PortfolioScene"}, opened)
	assert.Len(t, tgt.selected, 1)

	m.Pointer(500, 500, true, tgt)
	assert.Len(t, tgt.selected, 1)
}

func TestNilTarget(t *testing.T) {
	var opened []string
	m := testMenu(&opened)
	assert.NotPanics(t, func() {
		m.Pointer(20, 110, true, nil)
		m.Pointer(500, 500, false, nil)
	})
}
