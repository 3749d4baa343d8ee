// File: internal/perception/tensor.go
package perception

import "fmt"

// Tensor is a dense, row-major float32 tensor with a name and a fixed shape.
// It is the only tensor representation the pipeline stages see; whatever the
// inference backend uses internally is converted at the boundary so no stage
// depends on a runtime-specific type.
type Tensor struct {
	name  string
	shape []int
	data  []float32
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(name string, shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			n = 0
			break
		}
		n *= d
	}
	return &Tensor{
		name:  name,
		shape: append([]int(nil), shape...),
		data:  make([]float32, n),
	}
}

// NewTensorFrom wraps existing flat data in a tensor. It returns an error if
// the data length does not match the shape's element count.
func NewTensorFrom(name string, data []float32, shape ...int) (*Tensor, error) {
	t := &Tensor{name: name, shape: append([]int(nil), shape...)}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("tensor %q: non-positive dimension in shape %v", name, shape)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("tensor %q: shape %v wants %d elements, got %d", name, shape, n, len(data))
	}
	t.data = data
	return t, nil
}

// Name returns the tensor's name.
func (t *Tensor) Name() string { return t.name }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int { return t.shape[i] }

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Len returns the total number of elements.
func (t *Tensor) Len() int { return len(t.data) }

// Data exposes the flat backing slice. Callers must treat it as read-only.
func (t *Tensor) Data() []float32 { return t.data }

// At returns the element at the given multi-dimensional index.
func (t *Tensor) At(idx ...int) float32 {
	return t.data[t.flat(idx)]
}

// Set writes the element at the given multi-dimensional index.
func (t *Tensor) Set(v float32, idx ...int) {
	t.data[t.flat(idx)] = v
}

func (t *Tensor) flat(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor %q: index rank %d does not match shape rank %d", t.name, len(idx), len(t.shape)))
	}
	flat := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("tensor %q: index %v out of bounds for shape %v", t.name, idx, t.shape))
		}
		flat = flat*t.shape[i] + x
	}
	return flat
}
