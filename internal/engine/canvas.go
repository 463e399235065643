package engine

// DefaultBlockColor is used for block rewards created without a color.
const DefaultBlockColor = "#8b8b8b"

type cell struct{ X, Y int }

var neighbors = [4]cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// canvas is a working copy of a profile's build grid with a coordinate index.
// Every mutation keeps inventory[id] + placed(id) constant per reward id.
type canvas struct {
	p     Profile
	size  int
	index map[cell]int
}

func newCanvas(p Profile, size int) *canvas {
	c := &canvas{p: p.clone(), size: size, index: make(map[cell]int, len(p.WorldBlocks))}
	for i, b := range c.p.WorldBlocks {
		c.index[cell{b.X, b.Y}] = i
	}
	return c
}

func (c *canvas) inBounds(at cell) bool {
	return at.X >= 0 && at.Y >= 0 && at.X < c.size && at.Y < c.size
}

func (c *canvas) at(pos cell) (PlacedBlock, bool) {
	i, ok := c.index[pos]
	if !ok {
		return PlacedBlock{}, false
	}
	return c.p.WorldBlocks[i], true
}

func (c *canvas) colorAt(pos cell) string {
	b, ok := c.at(pos)
	if !ok {
		return ""
	}
	return b.Color
}

// remove lifts the block at pos back into the inventory.
func (c *canvas) remove(pos cell) bool {
	i, ok := c.index[pos]
	if !ok {
		return false
	}
	b := c.p.WorldBlocks[i]
	last := len(c.p.WorldBlocks) - 1
	if i != last {
		moved := c.p.WorldBlocks[last]
		c.p.WorldBlocks[i] = moved
		c.index[cell{moved.X, moved.Y}] = i
	}
	c.p.WorldBlocks = c.p.WorldBlocks[:last]
	delete(c.index, pos)
	c.p.Inventory[b.RewardID]++
	return true
}

// put places one unit of r at pos, refunding any occupant first.
func (c *canvas) put(pos cell, r Reward) {
	c.remove(pos)
	c.p.WorldBlocks = append(c.p.WorldBlocks, PlacedBlock{
		X:        pos.X,
		Y:        pos.Y,
		RewardID: r.ID,
		Color:    blockColor(r),
		Name:     r.Title,
	})
	c.index[pos] = len(c.p.WorldBlocks) - 1
	c.p.Inventory[r.ID]--
}

func blockColor(r Reward) string {
	if r.BlockColor == "" {
		return DefaultBlockColor
	}
	return r.BlockColor
}

func checkBlock(p Profile, r Reward) error {
	if r.Type != RewardBlock {
		return ErrNotBlock
	}
	if p.Inventory[r.ID] <= 0 {
		return ErrEmptyInventory
	}
	return nil
}

// PaintBlock places one block of r at (x, y). An occupant is refunded to the
// inventory before the new block is placed.
func PaintBlock(p Profile, r Reward, x, y, size int) (Profile, error) {
	c := newCanvas(p, size)
	pos := cell{x, y}
	if !c.inBounds(pos) {
		return p, ErrOutOfBounds
	}
	if err := checkBlock(p, r); err != nil {
		return p, err
	}
	c.put(pos, r)
	return c.p, nil
}

// EraseBlock removes the block at (x, y), if any, and refunds it.
func EraseBlock(p Profile, x, y, size int) (Profile, bool, error) {
	c := newCanvas(p, size)
	pos := cell{x, y}
	if !c.inBounds(pos) {
		return p, false, ErrOutOfBounds
	}
	if !c.remove(pos) {
		return p, false, nil
	}
	return c.p, true, nil
}

// FillBlocks repaints the 4-connected region sharing the color at (x, y)
// with r, one inventory unit per cell. It stops when the inventory runs
// out, so a large region may be filled only partially. Each cell is
// visited at most once.
func FillBlocks(p Profile, r Reward, x, y, size int) (Profile, int, error) {
	c := newCanvas(p, size)
	origin := cell{x, y}
	if !c.inBounds(origin) {
		return p, 0, ErrOutOfBounds
	}
	if err := checkBlock(p, r); err != nil {
		return p, 0, err
	}
	target := c.colorAt(origin)
	if target == blockColor(r) {
		return p, 0, nil
	}

	visited := map[cell]bool{origin: true}
	queue := []cell{origin}
	changed := 0
	for len(queue) > 0 && c.p.Inventory[r.ID] > 0 {
		cur := queue[0]
		queue = queue[1:]
		c.put(cur, r)
		changed++
		for _, d := range neighbors {
			next := cell{cur.X + d.X, cur.Y + d.Y}
			if !c.inBounds(next) || visited[next] {
				continue
			}
			visited[next] = true
			if c.colorAt(next) == target {
				queue = append(queue, next)
			}
		}
	}
	return c.p, changed, nil
}

// ClearCanvas refunds every placed block and empties the grid.
func ClearCanvas(p Profile) Profile {
	next := p.clone()
	for _, b := range next.WorldBlocks {
		next.Inventory[b.RewardID]++
	}
	next.WorldBlocks = nil
	return next
}

// PlacedCount returns how many blocks of reward id sit on the canvas.
func PlacedCount(p Profile, id string) int {
	n := 0
	for _, b := range p.WorldBlocks {
		if b.RewardID == id {
			n++
		}
	}
	return n
}
