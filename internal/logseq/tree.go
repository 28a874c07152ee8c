package logseq

// NestBlocks reconstructs parent/child structure from a flat, source-order
// block list using depth alone. Each block attaches to the nearest
// preceding block whose depth is strictly less than its own; blocks with
// no such ancestor become roots. Depth gaps are allowed: a block that
// dedents past levels never seen still finds the nearest shallower
// ancestor by depth value.
func NestBlocks(blocks []*Block) []*Block {
	var roots []*Block
	var open []*Block

	for _, block := range blocks {
		for len(open) > 0 && open[len(open)-1].Depth() >= block.Depth() {
			open = open[:len(open)-1]
		}
		if len(open) == 0 {
			roots = append(roots, block)
		} else {
			parent := open[len(open)-1]
			parent.Branches = append(parent.Branches, block)
		}
		open = append(open, block)
	}

	return roots
}
