package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kaleido/scene"
)

// termRenderer draws frames onto a tcell screen. Scene coordinates span
// [-1, 1] on both axes; the X axis is stretched to compensate for the 2:1
// cell aspect ratio.
type termRenderer struct {
	screen tcell.Screen
}

func newTermRenderer() (*termRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	screen.Clear()
	return &termRenderer{screen: screen}, nil
}

func (r *termRenderer) Fini() {
	r.screen.Fini()
}

func (r *termRenderer) Draw(frame *scene.Frame) error {
	w, h := r.screen.Size()
	if w < 4 || h < 4 {
		return nil
	}
	r.screen.Clear()

	cx := float64(w) / 2
	cy := float64(h-1) / 2
	// Fit the unit circle in the smaller dimension, doubling X for aspect.
	radius := cy * 0.95
	if cx/2 < radius {
		radius = cx / 2 * 0.95
	}

	for i := range frame.Points {
		pt := &frame.Points[i]
		x := int(cx + pt.X*radius*2)
		y := int(cy - pt.Y*radius)
		if x < 0 || x >= w || y < 0 || y >= h-1 {
			continue
		}
		// Premultiply by alpha: cells composite over black, so dimming the
		// foreground is how trail fade shows up.
		a := int32(pt.Color.A)
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
			int32(pt.Color.R)*a/255, int32(pt.Color.G)*a/255, int32(pt.Color.B)*a/255))
		r.screen.SetContent(x, y, shapeRune(pt.Shape, pt.Size), nil, style)
	}

	r.drawPulseBar(frame, w, h)
	r.screen.Show()
	return nil
}

// drawPulseBar renders a beat-reactive meter along the bottom row.
func (r *termRenderer) drawPulseBar(frame *scene.Frame, w, h int) {
	fill := int(frame.Pulse * float64(w))
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if frame.Beat {
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
	for x := 0; x < w; x++ {
		ch := ' '
		if x < fill {
			ch = '▮'
		}
		r.screen.SetContent(x, h-1, ch, nil, style)
	}
}

func shapeRune(shape string, size float64) rune {
	switch shape {
	case "square":
		return '■'
	case "triangle":
		return '▲'
	case "star":
		return '✦'
	}
	if size > 0.03 {
		return '●'
	}
	return '•'
}
