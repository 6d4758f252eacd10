package advisor

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
)

// ErrBadRequest marks a payload that does not describe a board, faction or move
var ErrBadRequest = errors.New("malformed request")

// Board payloads carry the glyph rows plus a unit list holding what glyphs
// cannot express:
//
//	{
//	  "rows":    ["#####", "#M.G#", "#####"],
//	  "next_id": 2,
//	  "units":   [{"id": 0, "x": 1, "y": 1, "health": 7}, ...]
//	}
//
// On decode the unit list is optional; each entry overrides the identity and
// health of the unit already placed by the rows at (x, y).

// boardToValue encodes a board
func boardToValue(b *core.Board) map[string]interface{} {
	rows := make([]interface{}, b.H)
	units := make([]interface{}, 0)
	line := make([]byte, b.W)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			t := b.T[b.Idx(x, y)]
			line[x] = core.Glyph(t)
			if t.IsOccupied() {
				units = append(units, map[string]interface{}{
					"id":        t.Unit.ID,
					"x":         x,
					"y":         y,
					"faction":   t.Unit.Faction.String(),
					"commander": t.Unit.Commander,
					"health":    t.Unit.Health,
				})
			}
		}
		rows[y] = string(line)
	}
	return map[string]interface{}{
		"rows":    rows,
		"next_id": b.NextID,
		"units":   units,
	}
}

// boardFromStruct decodes the board payload stored under key
func boardFromStruct(s *structpb.Struct, key string) (*core.Board, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrBadRequest, key)
	}
	fields := v.GetStructValue().GetFields()

	var rows []string
	for _, r := range fields["rows"].GetListValue().GetValues() {
		rows = append(rows, r.GetStringValue())
	}
	b, err := layout.Parse(rows, layout.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	for _, u := range fields["units"].GetListValue().GetValues() {
		uf := u.GetStructValue().GetFields()
		c := core.Coordinate{X: intField(uf, "x"), Y: intField(uf, "y")}
		if b.Classify(c) != core.TileUnit {
			return nil, fmt.Errorf("%w: unit entry at %s has no unit glyph", ErrBadRequest, c)
		}
		t := &b.T[c.ToIndex(b.W)]
		if _, ok := uf["id"]; ok {
			t.Unit.ID = intField(uf, "id")
		}
		if _, ok := uf["health"]; ok {
			t.Unit.Health = intField(uf, "health")
		}
	}

	if _, ok := fields["next_id"]; ok {
		b.NextID = intField(fields, "next_id")
	}
	for i := range b.T {
		if b.T[i].IsOccupied() && b.T[i].Unit.ID >= b.NextID {
			b.NextID = b.T[i].Unit.ID + 1
		}
	}
	return b, nil
}

func factionFromStruct(s *structpb.Struct) (core.Faction, error) {
	name := s.GetFields()["faction"].GetStringValue()
	f, err := core.ParseFaction(name)
	if err != nil {
		return core.NoFaction, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return f, nil
}

func coordinateToValue(c core.Coordinate) map[string]interface{} {
	return map[string]interface{}{"x": c.X, "y": c.Y}
}

func coordinateFromValue(v *structpb.Value) (core.Coordinate, error) {
	fields := v.GetStructValue().GetFields()
	if fields == nil {
		return core.Coordinate{}, fmt.Errorf("%w: coordinate must be an object", ErrBadRequest)
	}
	return core.Coordinate{X: intField(fields, "x"), Y: intField(fields, "y")}, nil
}

func moveToValue(m core.Move) map[string]interface{} {
	return map[string]interface{}{
		"from":   coordinateToValue(m.From),
		"to":     coordinateToValue(m.To),
		"summon": m.Summon,
	}
}

func moveFromStruct(s *structpb.Struct) (core.Move, error) {
	v, ok := s.GetFields()["move"]
	if !ok {
		return core.Move{}, fmt.Errorf("%w: missing \"move\"", ErrBadRequest)
	}
	fields := v.GetStructValue().GetFields()
	from, err := coordinateFromValue(fields["from"])
	if err != nil {
		return core.Move{}, err
	}
	to, err := coordinateFromValue(fields["to"])
	if err != nil {
		return core.Move{}, err
	}
	return core.Move{From: from, To: to, Summon: fields["summon"].GetBoolValue()}, nil
}

func actionsToValue(log *core.ActionLog) []interface{} {
	out := make([]interface{}, 0, log.Len())
	for _, a := range log.Actions {
		out = append(out, map[string]interface{}{
			"kind":    a.Kind.String(),
			"unit_id": a.UnitID,
			"from":    coordinateToValue(a.From),
			"to":      coordinateToValue(a.To),
		})
	}
	return out
}

// intField reads a JSON number as an int. Missing fields read as zero.
func intField(fields map[string]*structpb.Value, key string) int {
	return int(fields[key].GetNumberValue())
}
