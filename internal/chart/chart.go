// Package chart turns labelled values into drawing commands. Commands use
// page units with y growing downwards and are replayed by a renderer.
package chart

import (
	"fmt"
	"math"
)

type Datum struct {
	Label string
	Value float64
}

type RGB struct {
	R, G, B int
}

type Point struct {
	X, Y float64
}

type Kind int

const (
	KindPolygon Kind = iota
	KindRect
	KindLine
	KindText
)

// Command is one primitive. Polygon uses Points; Rect uses X, Y, W, H; Line
// uses Points[0] and Points[1]; Text uses X, Y, Text and Size.
type Command struct {
	Kind   Kind
	Fill   RGB
	Points []Point
	X, Y   float64
	W, H   float64
	Text   string
	Size   float64
}

// Palette is cycled through for slices and bars.
var Palette = []RGB{
	{52, 152, 219},
	{231, 76, 60},
	{46, 204, 113},
	{241, 196, 15},
	{155, 89, 182},
	{230, 126, 34},
	{26, 188, 156},
	{149, 165, 166},
}

var textColor = RGB{60, 60, 60}

const (
	legendSwatch = 3.5
	legendLine   = 6.0
	labelSize    = 8.0
	// arcStep is the max angle in radians between polygon points on an arc.
	arcStep = math.Pi / 36
)

func colorAt(i int) RGB {
	return Palette[i%len(Palette)]
}

func total(data []Datum) float64 {
	sum := 0.0
	for _, d := range data {
		if d.Value > 0 {
			sum += d.Value
		}
	}
	return sum
}

func noData(x, y float64) []Command {
	return []Command{{Kind: KindText, Fill: textColor, X: x, Y: y, Text: "No data", Size: labelSize}}
}

// Pie draws one slice per positive datum, clockwise from 12 o'clock, with a
// legend to the right of the circle.
func Pie(data []Datum, cx, cy, radius float64) []Command {
	sum := total(data)
	if sum == 0 {
		return noData(cx-radius, cy)
	}

	var cmds []Command
	angle := -math.Pi / 2
	for i, d := range data {
		if d.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * d.Value / sum
		cmds = append(cmds, Command{
			Kind:   KindPolygon,
			Fill:   colorAt(i),
			Points: sector(cx, cy, radius, angle, angle+sweep),
		})
		angle += sweep
	}

	return append(cmds, legend(data, sum, cx+radius+8, cy-radius)...)
}

// Bars draws a vertical bar per datum inside the w x h box at (x, y), scaled
// to the largest value, with labels under each bar and values above.
func Bars(data []Datum, x, y, w, h float64) []Command {
	if len(data) == 0 || total(data) == 0 {
		return noData(x, y+h/2)
	}

	peak := 0.0
	for _, d := range data {
		peak = math.Max(peak, d.Value)
	}

	slot := w / float64(len(data))
	barW := slot * 0.6
	baseline := y + h

	cmds := []Command{{
		Kind:   KindLine,
		Fill:   textColor,
		Points: []Point{{X: x, Y: baseline}, {X: x + w, Y: baseline}},
	}}
	for i, d := range data {
		barH := 0.0
		if d.Value > 0 {
			barH = h * d.Value / peak
		}
		bx := x + float64(i)*slot + (slot-barW)/2
		cmds = append(cmds,
			Command{Kind: KindRect, Fill: colorAt(i), X: bx, Y: baseline - barH, W: barW, H: barH},
			Command{Kind: KindText, Fill: textColor, X: bx, Y: baseline - barH - 1.5, Text: formatValue(d.Value), Size: labelSize},
			Command{Kind: KindText, Fill: textColor, X: bx, Y: baseline + 4, Text: d.Label, Size: labelSize - 1},
		)
	}
	return cmds
}

func legend(data []Datum, sum, x, y float64) []Command {
	var cmds []Command
	row := 0
	for i, d := range data {
		if d.Value <= 0 {
			continue
		}
		ly := y + float64(row)*legendLine
		pct := 100 * d.Value / sum
		cmds = append(cmds,
			Command{Kind: KindRect, Fill: colorAt(i), X: x, Y: ly, W: legendSwatch, H: legendSwatch},
			Command{
				Kind: KindText,
				Fill: textColor,
				X:    x + legendSwatch + 2,
				Y:    ly + legendSwatch,
				Text: fmt.Sprintf("%s: %s (%.1f%%)", d.Label, formatValue(d.Value), pct),
				Size: labelSize,
			},
		)
		row++
	}
	return cmds
}

// sector approximates a pie slice as a polygon starting at the center.
func sector(cx, cy, r, from, to float64) []Point {
	steps := int(math.Ceil((to - from) / arcStep))
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, 0, steps+2)
	pts = append(pts, Point{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
