package tensor

// Zeros creates a tensor filled with zeros.
// Panics on an invalid shape.
func Zeros[T Float](shape Shape) *Tensor[T] {
	t, err := New[T](shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones[T Float](shape Shape) *Tensor[T] {
	return Full[T](shape, 1)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14)
func Full[T Float](shape Shape, value T) *Tensor[T] {
	t := Zeros[T](shape)
	t.Fill(value)
	return t
}

// Arange creates a tensor of the given shape holding 0, 1, ..., n-1 in
// row-major order.
func Arange[T Float](shape Shape) *Tensor[T] {
	t := Zeros[T](shape)
	for i := range t.data {
		t.data[i] = T(i)
	}
	return t
}
