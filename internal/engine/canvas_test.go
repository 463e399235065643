package engine

import (
	"errors"
	"testing"
)

var (
	grass = Reward{ID: "1", Title: "Grass Block", Type: RewardBlock, BlockColor: "#58a034"}
	stone = Reward{ID: "2", Title: "Stone Block", Type: RewardBlock, BlockColor: "#8b8b8b"}
)

func conserved(t *testing.T, before, after Profile, ids ...string) {
	t.Helper()
	for _, id := range ids {
		b := before.Inventory[id] + PlacedCount(before, id)
		a := after.Inventory[id] + PlacedCount(after, id)
		if a != b {
			t.Fatalf("reward %s: inventory+placed went %d -> %d", id, b, a)
		}
	}
}

func assertUniqueCells(t *testing.T, p Profile) {
	t.Helper()
	seen := map[cell]bool{}
	for _, b := range p.WorldBlocks {
		c := cell{b.X, b.Y}
		if seen[c] {
			t.Fatalf("two blocks at %v", c)
		}
		seen[c] = true
	}
}

func TestPaintRefundsOccupant(t *testing.T) {
	p := freshProfile()
	p.Inventory = map[string]int{"1": 1, "2": 1}

	p1, err := PaintBlock(p, grass, 3, 4, 12)
	if err != nil {
		t.Fatalf("PaintBlock grass: %v", err)
	}
	p2, err := PaintBlock(p1, stone, 3, 4, 12)
	if err != nil {
		t.Fatalf("PaintBlock stone: %v", err)
	}
	if len(p2.WorldBlocks) != 1 || p2.WorldBlocks[0].RewardID != "2" {
		t.Fatalf("blocks=%+v", p2.WorldBlocks)
	}
	if p2.Inventory["1"] != 1 || p2.Inventory["2"] != 0 {
		t.Fatalf("inventory=%v", p2.Inventory)
	}
	conserved(t, p, p2, "1", "2")
	if len(p.WorldBlocks) != 0 || p.Inventory["1"] != 1 {
		t.Fatalf("input profile was mutated")
	}
}

func TestPaintRejections(t *testing.T) {
	p := freshProfile()
	p.Inventory = map[string]int{"1": 1, "3": 1}

	if _, err := PaintBlock(p, grass, 12, 0, 12); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	if _, err := PaintBlock(p, grass, -1, 0, 12); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	if _, err := PaintBlock(p, stone, 0, 0, 12); !errors.Is(err, ErrEmptyInventory) {
		t.Fatalf("err=%v, want ErrEmptyInventory", err)
	}
	if _, err := PaintBlock(p, Reward{ID: "3", Type: RewardRealLife}, 0, 0, 12); !errors.Is(err, ErrNotBlock) {
		t.Fatalf("err=%v, want ErrNotBlock", err)
	}
}

func TestEraseRefunds(t *testing.T) {
	p := freshProfile()
	p.Inventory = map[string]int{"1": 2}
	p, _ = PaintBlock(p, grass, 0, 0, 12)
	p, _ = PaintBlock(p, grass, 1, 0, 12)

	next, ok, err := EraseBlock(p, 0, 0, 12)
	if err != nil || !ok {
		t.Fatalf("EraseBlock: %v %v", ok, err)
	}
	if next.Inventory["1"] != 1 || len(next.WorldBlocks) != 1 || next.WorldBlocks[0].X != 1 {
		t.Fatalf("got %+v", next)
	}
	conserved(t, p, next, "1")

	same, ok, err := EraseBlock(next, 5, 5, 12)
	if err != nil || ok || len(same.WorldBlocks) != 1 {
		t.Fatalf("erase of empty cell: ok=%v err=%v", ok, err)
	}
}

func TestFillEmptyGridLimitedByInventory(t *testing.T) {
	p := freshProfile()
	p.Inventory = map[string]int{"1": 10}

	next, n, err := FillBlocks(p, grass, 0, 0, 4)
	if err != nil {
		t.Fatalf("FillBlocks: %v", err)
	}
	if n != 10 || len(next.WorldBlocks) != 10 || next.Inventory["1"] != 0 {
		t.Fatalf("n=%d blocks=%d inv=%d", n, len(next.WorldBlocks), next.Inventory["1"])
	}
	assertUniqueCells(t, next)
	conserved(t, p, next, "1")
}

func TestFillUniformGridVisitsEachCellOnce(t *testing.T) {
	const size = 6
	p := freshProfile()
	p.Inventory = map[string]int{"1": size * size, "2": size * size}
	p, n, err := FillBlocks(p, grass, 2, 2, size)
	if err != nil || n != size*size {
		t.Fatalf("first fill n=%d err=%v", n, err)
	}

	next, n, err := FillBlocks(p, stone, 0, 0, size)
	if err != nil {
		t.Fatalf("FillBlocks: %v", err)
	}
	if n != size*size {
		t.Fatalf("n=%d, want %d", n, size*size)
	}
	if next.Inventory["1"] != size*size || next.Inventory["2"] != 0 {
		t.Fatalf("inventory=%v", next.Inventory)
	}
	assertUniqueCells(t, next)
	conserved(t, p, next, "1", "2")

	same, n, err := FillBlocks(next, stone, 3, 3, size)
	if err != nil || n != 0 || len(same.WorldBlocks) != size*size {
		t.Fatalf("same-color fill n=%d err=%v", n, err)
	}
}

func TestFillCheckerboardOnlyTouchesOrigin(t *testing.T) {
	const size = 5
	p := freshProfile()
	p.Inventory = map[string]int{"1": 100, "2": 100}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r := grass
			if (x+y)%2 == 1 {
				r = stone
			}
			var err error
			p, err = PaintBlock(p, r, x, y, size)
			if err != nil {
				t.Fatalf("PaintBlock(%d,%d): %v", x, y, err)
			}
		}
	}

	// Grass cells have no grass 4-neighbours, so only the origin changes.
	next, n, err := FillBlocks(p, stone, 0, 0, size)
	if err != nil {
		t.Fatalf("FillBlocks: %v", err)
	}
	if n != 1 {
		t.Fatalf("n=%d, want 1", n)
	}
	assertUniqueCells(t, next)
	conserved(t, p, next, "1", "2")
}

func TestClearCanvasRefundsEverything(t *testing.T) {
	p := freshProfile()
	p.Inventory = map[string]int{"1": 3, "2": 2}
	p, _ = PaintBlock(p, grass, 0, 0, 12)
	p, _ = PaintBlock(p, grass, 1, 0, 12)
	p, _ = PaintBlock(p, stone, 2, 0, 12)

	next := ClearCanvas(p)
	if len(next.WorldBlocks) != 0 || next.Inventory["1"] != 3 || next.Inventory["2"] != 2 {
		t.Fatalf("got %+v", next)
	}
	conserved(t, p, next, "1", "2")
}
