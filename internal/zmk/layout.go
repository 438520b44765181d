// Package zmk lays keymap layers out on the destination grid and prints
// them as ZMK devicetree layer blocks.
package zmk

import "fmt"

// Grid geometry. Source rows are mapped onto a 5 x (2 x Width) grid; every
// hand row holds keyboard keys, a gap, thumb keys and filler, mirrored for
// the right hand.
const (
	Rows  = 5
	Width = 10

	KeyboardBindings = 64
	ThumbBindings    = 12
	LayerBindings    = KeyboardBindings + ThumbBindings
)

var (
	keyboardCols = [Rows]int{7, 7, 6, 7, 5}
	thumbCols    = [Rows]int{0, 0, 2, 1, 3}
	gapCols      = [Rows]int{0, 0, 1, 1, 2}
)

type Hand uint8

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Right {
		return "right"
	}
	return "left"
}

type SlotKind uint8

const (
	KeySlotKind SlotKind = iota
	GapSlotKind
	ThumbSlotKind
	FillSlotKind
)

func (k SlotKind) String() string {
	switch k {
	case KeySlotKind:
		return "key"
	case GapSlotKind:
		return "gap"
	case ThumbSlotKind:
		return "thumb"
	case FillSlotKind:
		return "fill"
	}
	return fmt.Sprintf("SlotKind(%d)", uint8(k))
}

// Slot is the i-th cell of one kind inside a hand row.
type Slot struct {
	Kind  SlotKind
	Index int
}

func KeySlot(i int) Slot   { return Slot{KeySlotKind, i} }
func GapSlot(i int) Slot   { return Slot{GapSlotKind, i} }
func ThumbSlot(i int) Slot { return Slot{ThumbSlotKind, i} }
func FillSlot(i int) Slot  { return Slot{FillSlotKind, i} }

// Position names a cell by row, hand and slot instead of by raw index.
type Position struct {
	Row  int
	Hand Hand
	Slot Slot
}

func (p Position) String() string {
	return fmt.Sprintf("row %d %s %s[%d]", p.Row, p.Hand, p.Slot.Kind, p.Slot.Index)
}

// rowSegments returns the lengths of the key, gap, thumb and fill runs of a
// hand row.
func rowSegments(row int) (keys, gap, thumbs, fill int) {
	keys, gap, thumbs = keyboardCols[row], gapCols[row], thumbCols[row]
	return keys, gap, thumbs, Width - keys - gap - thumbs
}

// Column resolves p to a cell index in the full 2*Width row.
func (p Position) Column() (int, error) {
	if p.Row < 0 || p.Row >= Rows {
		return 0, fmt.Errorf("%s: row out of range", p)
	}
	keys, gap, thumbs, fill := rowSegments(p.Row)
	var start, n int
	switch p.Hand {
	case Left:
		// keys | gap | thumbs | fill
		switch p.Slot.Kind {
		case KeySlotKind:
			start, n = 0, keys
		case GapSlotKind:
			start, n = keys, gap
		case ThumbSlotKind:
			start, n = keys+gap, thumbs
		case FillSlotKind:
			start, n = keys+gap+thumbs, fill
		}
	case Right:
		// fill | thumbs | gap | keys
		switch p.Slot.Kind {
		case FillSlotKind:
			start, n = 0, fill
		case ThumbSlotKind:
			start, n = fill, thumbs
		case GapSlotKind:
			start, n = fill+thumbs, gap
		case KeySlotKind:
			start, n = fill+thumbs+gap, keys
		}
		start += Width
	}
	if p.Slot.Index < 0 || p.Slot.Index >= n {
		return 0, fmt.Errorf("%s: slot out of range (row has %d)", p, n)
	}
	return start + p.Slot.Index, nil
}

// Named override positions. The source board has wrist-row and home-row
// keys with no physical counterpart on the destination grid.
var (
	LeftWristInner  = Position{Row: 3, Hand: Left, Slot: KeySlot(6)}
	LeftWristGap    = Position{Row: 3, Hand: Left, Slot: GapSlot(0)}
	LeftWristEdge   = Position{Row: 3, Hand: Left, Slot: FillSlot(0)}
	RightWristEdge  = Position{Row: 3, Hand: Right, Slot: FillSlot(0)}
	RightWristGap   = Position{Row: 3, Hand: Right, Slot: GapSlot(0)}
	RightWristInner = Position{Row: 3, Hand: Right, Slot: KeySlot(0)}

	LeftHomeGap  = Position{Row: 2, Hand: Left, Slot: GapSlot(0)}
	RightHomeGap = Position{Row: 2, Hand: Right, Slot: GapSlot(0)}

	LeftBottomOuter  = Position{Row: 4, Hand: Left, Slot: KeySlot(0)}
	RightBottomOuter = Position{Row: 4, Hand: Right, Slot: KeySlot(4)}
)

type overrideAction uint8

const (
	overrideNone overrideAction = iota
	overrideModLayer
)

type override struct {
	pos    Position
	action overrideAction
}

var overrides = []override{
	{LeftWristInner, overrideNone},
	{LeftWristGap, overrideNone},
	{LeftWristEdge, overrideNone},
	{RightWristEdge, overrideNone},
	{RightWristGap, overrideNone},
	{RightWristInner, overrideNone},
	{LeftHomeGap, overrideNone},
	{RightHomeGap, overrideNone},
	{LeftBottomOuter, overrideModLayer},
	{RightBottomOuter, overrideModLayer},
}

// OverridePositions lists every position whose content is fixed regardless
// of the layer.
func OverridePositions() []Position {
	out := make([]Position, len(overrides))
	for i, o := range overrides {
		out[i] = o.pos
	}
	return out
}

// Grid is the rendered cell text of one layer; "" is a blank cell.
type Grid [Rows][2 * Width]string

// Place distributes exactly LayerBindings cells onto the grid. Keyboard
// bindings come first, row by row, left hand then right hand; thumb
// bindings follow in the same order.
func Place(cells []string) (Grid, error) {
	var g Grid
	if len(cells) != LayerBindings {
		return g, fmt.Errorf("expected %d bindings, got %d", LayerBindings, len(cells))
	}
	keyboard, thumbs := cells[:KeyboardBindings], cells[KeyboardBindings:]
	kb, th := 0, 0
	for row := range Rows {
		keys, _, nThumbs, _ := rowSegments(row)
		for _, hand := range []Hand{Left, Right} {
			for i := range keys {
				col, _ := Position{row, hand, KeySlot(i)}.Column()
				g[row][col] = keyboard[kb]
				kb++
			}
			for i := range nThumbs {
				col, _ := Position{row, hand, ThumbSlot(i)}.Column()
				g[row][col] = thumbs[th]
				th++
			}
		}
	}
	return g, nil
}

// applyOverrides writes the fixed cells; modLayer is the target of the
// bottom outer keys.
func (g *Grid) applyOverrides(none, modLayer string) {
	for _, o := range overrides {
		col, err := o.pos.Column()
		if err != nil {
			panic(err) // static table
		}
		switch o.action {
		case overrideNone:
			g[o.pos.Row][col] = none
		case overrideModLayer:
			g[o.pos.Row][col] = "&mo " + modLayer
		}
	}
}
