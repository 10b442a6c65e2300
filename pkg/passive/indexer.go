package passive

// indexer gives a unique SAT variable to every combination of a variable block's attributes and vice versa.
// Blocks are laid one after the other: a block starts right after the offset
type indexer struct {
	offset     int64
	dimensions []int
}

func newIndexer(offset int64, dimensions ...int) indexer {
	return indexer{offset: offset, dimensions: dimensions}
}

// Index returns the variable of a combination of attributes, the first attribute varying fastest
func (indexer indexer) Index(attributes ...int) int64 {
	index, stride := int64(0), int64(1)
	for i, attribute := range attributes {
		index += int64(attribute) * stride
		stride *= int64(indexer.dimensions[i])
	}
	return indexer.offset + index + 1
}

// Attributes returns the combination of attributes of a variable
func (indexer indexer) Attributes(index int64) []int {
	index = index - indexer.offset - 1
	attributes := make([]int, len(indexer.dimensions))
	for i, dimension := range indexer.dimensions {
		attributes[i] = int(index % int64(dimension))
		index = index / int64(dimension)
	}
	return attributes
}

func (indexer indexer) Size() int64 {
	size := int64(1)
	for _, dimension := range indexer.dimensions {
		size *= int64(dimension)
	}
	return size
}

// End is the offset of the next block
func (indexer indexer) End() int64 {
	return indexer.offset + indexer.Size()
}
