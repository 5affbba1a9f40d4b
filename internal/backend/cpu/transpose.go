package cpu

import (
	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// TransposeShape validates perm against shape and returns the permuted shape.
// An empty perm reverses all axes.
func TransposeShape(shape tensor.Shape, perm []int) (tensor.Shape, []int, error) {
	ndim := len(shape)
	if len(perm) == 0 {
		perm = make([]int, ndim)
		for i := range perm {
			perm[i] = ndim - 1 - i
		}
	}
	if len(perm) != ndim {
		return nil, nil, tensor.ShapeErrorf("transpose: permutation length %d != rank %d", len(perm), ndim)
	}

	seen := make([]bool, ndim)
	resolved := make([]int, ndim)
	for i, ax := range perm {
		ax, err := tensor.NormalizeAxis(ax, ndim)
		if err != nil {
			return nil, nil, err
		}
		if seen[ax] {
			return nil, nil, tensor.ShapeErrorf("transpose: duplicate axis %d", ax)
		}
		seen[ax] = true
		resolved[i] = ax
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range resolved {
		newShape[i] = shape[ax]
	}
	return newShape, resolved, nil
}

// InversePermutation returns the permutation undoing perm.
func InversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, ax := range perm {
		inv[ax] = i
	}
	return inv
}

// Transpose writes in with its axes permuted by perm into out.
// Output axis i is input axis perm[i].
func (b *Backend[T]) Transpose(out, in *tensor.Tensor[T], perm []int) error {
	if err := expectInputs("transpose", in); err != nil {
		return err
	}
	outShape, perm, err := TransposeShape(in.Shape(), perm)
	if err != nil {
		return err
	}
	if err := expectShape("transpose", "output", out, outShape); err != nil {
		return err
	}
	if out.NumElements() == 0 {
		return nil
	}

	return run("transpose", func() {
		switch {
		case isIdentity(perm):
			copy(out.Data(), in.Data())
		case len(perm) == 2:
			b.transpose2D(out.Data(), in.Data(), in.Shape()[0], in.Shape()[1])
		default:
			b.transposeND(out.Data(), in.Data(), in.Shape(), outShape, perm)
		}
	})
}

// isIdentity reports whether perm keeps every axis in place.
func isIdentity(perm []int) bool {
	for i, ax := range perm {
		if ax != i {
			return false
		}
	}
	return true
}

// transpose2D is the rank-2 fast path: input rows are spread over the pool
// and each row's columns are vectorized into a strided store down one output
// column. Distinct input rows write distinct output columns.
func (b *Backend[T]) transpose2D(dst, src []T, rows, cols int) {
	width := b.width()
	b.pool.Parallelize(rows, 0, func(start, end int) {
		for r := start; r < end; r++ {
			row := src[r*cols : (r+1)*cols]
			parallel.Vectorize(width, cols, func(off, w int) {
				for j := off; j < off+w; j++ {
					dst[j*rows+r] = row[j]
				}
			})
		}
	})
}

// transposeND handles any rank. Each output row (all axes but the last) is
// independent. The row index is decomposed through the output shape and the
// digits are multiplied by the permuted input strides to find the source
// base; the innermost output axis is then read with the stride of the input
// axis it came from.
func (b *Backend[T]) transposeND(dst, src []T, inShape, outShape tensor.Shape, perm []int) {
	rank := len(outShape)
	inStrides := inShape.Strides()
	permStrides := make([]int, rank)
	for i, ax := range perm {
		permStrides[i] = inStrides[ax]
	}

	rowLen := outShape[rank-1]
	innerStride := permStrides[rank-1]
	numRows := len(dst) / rowLen
	width := b.width()

	b.pool.Parallelize(numRows, 0, func(start, end int) {
		for row := start; row < end; row++ {
			base, rem := 0, row
			for d := rank - 2; d >= 0; d-- {
				base += (rem % outShape[d]) * permStrides[d]
				rem /= outShape[d]
			}
			out := dst[row*rowLen : (row+1)*rowLen]
			parallel.Vectorize(width, rowLen, func(off, w int) {
				idx := base + off*innerStride
				for j := off; j < off+w; j++ {
					out[j] = src[idx]
					idx += innerStride
				}
			})
		}
	})
}
