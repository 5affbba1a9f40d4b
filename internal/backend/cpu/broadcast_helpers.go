package cpu

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// broadcastIndexer maps flat indices of a broadcast target onto offsets of a
// smaller operand.
type broadcastIndexer struct {
	strides []int
	target  tensor.Shape
}

// newBroadcastIndexer prepares the strides of from broadcast into target.
// Dimensions of size 1 (or missing) get stride 0.
func newBroadcastIndexer(from, target tensor.Shape) broadcastIndexer {
	return broadcastIndexer{
		strides: tensor.BroadcastStrides(from, target),
		target:  target,
	}
}

// index returns the operand offset for flat index i of the target.
func (bi broadcastIndexer) index(i int) int {
	return tensor.RealIndex(i, bi.strides, bi.target)
}

// broadcastsInto reports whether from can be broadcast into target without
// changing target.
func broadcastsInto(from, target tensor.Shape) bool {
	if len(from) > len(target) {
		return false
	}
	out, err := tensor.BroadcastShapes(from, target)
	return err == nil && out.Equal(target)
}
