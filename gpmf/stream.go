package gpmf

import "iter"

// Block is the joined sibling set of a single STRM container, keyed by
// fourcc. Presence of any given key is optional and varies by camera
// generation and data key — materializers branch on presence rather than
// assuming a fixed struct shape.
type Block map[Key]Record

// HasAny reports whether the block contains at least one of keys.
func (b Block) HasAny(keys []Key) bool {
	for _, k := range keys {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// IterStreamBlocks walks buf depth-first, and at every STRM container
// joins its direct children into a Block keyed by fourcc. A block is only
// emitted if it contains at least one of dataKeys. When a STRM contains
// two children sharing a fourcc, the later one wins — this falls out
// naturally from assigning into a Go map in scan order.
func IterStreamBlocks(buf []byte, dataKeys []Key, opts Options) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		walkStreams(buf, dataKeys, opts, yield)
	}
}

func walkStreams(buf []byte, dataKeys []Key, opts Options, yield func(Block, error) bool) bool {
	for rec, err := range Records(buf, opts) {
		if err != nil {
			return yield(Block{}, err)
		}
		if !rec.IsContainer() {
			continue
		}
		if rec.Key == KeySTRM {
			block := Block{}
			for child, err := range Records(rec.Payload, opts) {
				if err != nil {
					return yield(Block{}, err)
				}
				block[child.Key] = child
			}
			if block.HasAny(dataKeys) {
				if !yield(block, nil) {
					return false
				}
			}
		}
		if !walkStreams(rec.Payload, dataKeys, opts, yield) {
			return false
		}
	}
	return true
}
