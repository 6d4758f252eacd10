package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// ANSI color codes used by Render
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorBlue   = "\033[34m"
	ColorGray   = "\033[90m"
)

var factionColors = map[core.Faction]string{
	core.Mice:    ColorBlue,
	core.Goblins: ColorGreen,
}

// Render draws b with column and row headers. Each cell is two characters:
// the layout glyph and, for commanders, their remaining health capped at 9.
// With color set, factions and walls are wrapped in ANSI codes.
func Render(b *core.Board, color bool) string {
	var sb strings.Builder
	// ~2 chars per cell plus ANSI codes, headers and legend
	sb.Grow((b.W*14+8)*(b.H+3) + 64)

	sb.WriteString("   ")
	for x := 0; x < b.W; x++ {
		fmt.Fprintf(&sb, "%2d", x)
	}
	sb.WriteString("\n")

	for y := 0; y < b.H; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < b.W; x++ {
			writeTile(&sb, b.T[b.Idx(x, y)], color)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n#=wall .=empty m/M=mice g/G=goblins (capitals are commanders)\n")
	return sb.String()
}

func writeTile(sb *strings.Builder, t core.Tile, color bool) {
	glyph := core.Glyph(t)
	suffix := byte(' ')
	if t.IsOccupied() && t.Unit.Commander {
		h := t.Unit.Health
		switch {
		case h > 9:
			suffix = '+'
		case h > 0:
			suffix = byte('0' + h)
		}
	}

	c := ""
	if color {
		switch {
		case t.IsWall():
			c = ColorGray
		case t.IsOccupied():
			c = factionColors[t.Unit.Faction]
			if t.Unit.Health <= 0 {
				c = ColorRed
			}
		}
	}

	if c != "" {
		sb.WriteString(c)
	}
	sb.WriteByte(glyph)
	sb.WriteByte(suffix)
	if c != "" {
		sb.WriteString(ColorReset)
	}
}

// Summary is a one-line description of the match state for logs and CLIs
func (m *Match) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("turn %d, %s to move, mice %d units, goblins %d units, phase %s",
		m.ctx.Turn, m.toMove, m.board.CountUnits(core.Mice), m.board.CountUnits(core.Goblins), m.sm.CurrentPhase())
}
