package render

import (
	"slices"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// CommandKind orders commands on flush: background first, text last.
type CommandKind uint8

const (
	CommandFill CommandKind = iota
	CommandPolygon
	CommandLine
	CommandText
)

// String returns the kind name.
func (k CommandKind) String() string {
	switch k {
	case CommandFill:
		return "fill"
	case CommandPolygon:
		return "polygon"
	case CommandLine:
		return "line"
	case CommandText:
		return "text"
	default:
		return "unknown"
	}
}

// Command is one screen-space primitive.
type Command struct {
	Kind      CommandKind
	Points    [4]math3d.Vec2
	N         int // used points
	Color     geom.Color
	Thickness float64
	Size      float64
	Text      string
}

// CommandBuffer collects draw commands for a frame. Commands of the same
// kind execute in the order they were added.
type CommandBuffer struct {
	cmds  []Command
	verts []math3d.Vec2
}

// NewCommandBuffer creates an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Len returns the number of queued commands.
func (b *CommandBuffer) Len() int { return len(b.cmds) }

// Commands returns the queued commands in insertion order.
func (b *CommandBuffer) Commands() []Command { return b.cmds }

// Reset drops all queued commands and keeps the storage.
func (b *CommandBuffer) Reset() { b.cmds = b.cmds[:0] }

// Fill queues a background fill.
func (b *CommandBuffer) Fill(c geom.Color) {
	b.cmds = append(b.cmds, Command{Kind: CommandFill, Color: c})
}

// Polygon queues a screen-space polygon. Its color is the base color
// modulated by the shader.
func (b *CommandBuffer) Polygon(p *geom.Polygon) {
	cmd := Command{Kind: CommandPolygon, N: p.N(), Color: p.Color.Mul(p.Shader)}
	for i, v := range p.Verts() {
		cmd.Points[i] = math3d.XY(v)
	}
	b.cmds = append(b.cmds, cmd)
}

// Line queues a segment.
func (b *CommandBuffer) Line(a, c math3d.Vec2, thickness float64, col geom.Color) {
	b.cmds = append(b.cmds, Command{
		Kind:      CommandLine,
		Points:    [4]math3d.Vec2{a, c},
		N:         2,
		Color:     col,
		Thickness: thickness,
	})
}

// Text queues a text run at a pixel position.
func (b *CommandBuffer) Text(pos math3d.Vec2, size float64, text string, c geom.Color) {
	b.cmds = append(b.cmds, Command{
		Kind:   CommandText,
		Points: [4]math3d.Vec2{pos},
		N:      1,
		Color:  c,
		Size:   size,
		Text:   text,
	})
}

// Flush executes every command on sink, stable-sorted by kind, and empties
// the buffer.
func (b *CommandBuffer) Flush(sink Sink) {
	slices.SortStableFunc(b.cmds, func(x, y Command) int {
		return int(x.Kind) - int(y.Kind)
	})
	for i := range b.cmds {
		cmd := &b.cmds[i]
		switch cmd.Kind {
		case CommandFill:
			sink.Clear(cmd.Color)
		case CommandPolygon:
			b.verts = append(b.verts[:0], cmd.Points[:cmd.N]...)
			sink.FillPolygon(b.verts, cmd.Color)
		case CommandLine:
			sink.Line(cmd.Points[0], cmd.Points[1], cmd.Thickness, cmd.Color)
		case CommandText:
			sink.Text(cmd.Points[0], cmd.Size, cmd.Text, cmd.Color)
		}
	}
	b.Reset()
}
