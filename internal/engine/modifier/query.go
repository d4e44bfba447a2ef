package modifier

import (
	"slices"

	"github.com/dshills/pagestorm/internal/engine/content"
)

func indexOfKey(blocks []content.Block, key string) int {
	for i, b := range blocks {
		if b.Key() == key {
			return i
		}
	}
	return -1
}

// GetNestedBlocks returns the contiguous run of blocks after block whose
// depth is greater than block's, stopping at the first block that is not
// deeper. It returns nil when block is not in blocks.
func GetNestedBlocks(block content.Block, blocks []content.Block) []content.Block {
	i := indexOfKey(blocks, block.Key())
	if i < 0 {
		return nil
	}
	var nested []content.Block
	for _, b := range blocks[i+1:] {
		if b.Depth() <= block.Depth() {
			break
		}
		nested = append(nested, b)
	}
	return nested
}

// GetBlocksBetween returns the blocks from startKey to endKey inclusive, in
// document order, whichever comes first. It returns nil if either key is
// missing.
func GetBlocksBetween(blocks []content.Block, startKey, endKey string) []content.Block {
	from := indexOfKey(blocks, startKey)
	to := indexOfKey(blocks, endKey)
	if from < 0 || to < 0 {
		return nil
	}
	if to < from {
		from, to = to, from
	}
	out := make([]content.Block, to-from+1)
	copy(out, blocks[from:to+1])
	return out
}

// GetPrevNumberedBlocksWithSameLevel returns the numbered list run that
// ends at block, in document order and including block. Walking backwards,
// numbered blocks at the same depth are counted, deeper blocks of any type
// are skipped, and a shallower block or a block of another type at the same
// depth ends the run. It returns nil when block is not a numbered item in
// blocks.
func GetPrevNumberedBlocksWithSameLevel(block content.Block, blocks []content.Block) []content.Block {
	i := indexOfKey(blocks, block.Key())
	if i < 0 || block.Type() != content.TypeNumbered {
		return nil
	}
	depth := block.Depth()
	run := []content.Block{blocks[i]}
	for j := i - 1; j >= 0; j-- {
		b := blocks[j]
		if b.Depth() > depth {
			continue
		}
		if b.Depth() < depth || b.Type() != content.TypeNumbered {
			break
		}
		run = append(run, b)
	}
	slices.Reverse(run)
	return run
}

// Ordinal returns the 1-based list number of a numbered block, or 0.
func Ordinal(block content.Block, blocks []content.Block) int {
	return len(GetPrevNumberedBlocksWithSameLevel(block, blocks))
}
