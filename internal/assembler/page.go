package assembler

import "github.com/goliatone/go-cms-animations/animation"

// DefaultContainerFields lists the block reference fields walked when no
// configuration overrides them.
var DefaultContainerFields = []string{"story_blocks", "catalog_items"}

// Block is a rendered content block as seen by the assembler. Children holds
// nested blocks keyed by the container field that references them.
type Block struct {
	ID       string
	Type     string
	Title    string
	Binding  *animation.Binding
	Children map[string][]*Block
}

// Page is the root of a rendered page tree.
type Page struct {
	ID     string
	Fields map[string][]*Block
}

// CollectBlocks walks the container fields of page depth-first and returns
// every reachable block once, in encounter order. Nested blocks are reached
// through the same container fields.
func CollectBlocks(page *Page, containerFields []string) []*Block {
	if page == nil {
		return nil
	}
	if len(containerFields) == 0 {
		containerFields = DefaultContainerFields
	}

	seen := make(map[string]struct{})
	var out []*Block
	var visit func(blocks []*Block)
	visit = func(blocks []*Block) {
		for _, block := range blocks {
			if block == nil {
				continue
			}
			if _, ok := seen[block.ID]; ok {
				continue
			}
			seen[block.ID] = struct{}{}
			out = append(out, block)
			for _, field := range containerFields {
				visit(block.Children[field])
			}
		}
	}
	for _, field := range containerFields {
		visit(page.Fields[field])
	}
	return out
}

// BoundKeys returns the distinct animation keys referenced by blocks, in
// encounter order.
func BoundKeys(blocks []*Block) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, block := range blocks {
		if block == nil || !block.Binding.Bound() {
			continue
		}
		key := block.Binding.AnimationKey
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
