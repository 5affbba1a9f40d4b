package ops

import (
	"strings"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Kind enumerates the operators.
type Kind int

// Operator kinds.
const (
	Sigmoid Kind = iota
	ReLU
	Tanh
	Clip
	Squeeze
	Unsqueeze
	Slice
	Transpose
	Add
	Sub
	Mul
	Div
	Exp
	ReduceSum
	ReduceMean
	numKinds
)

var kindNames = [numKinds]string{
	Sigmoid:    "SIGMOID",
	ReLU:       "RELU",
	Tanh:       "TANH",
	Clip:       "CLIP",
	Squeeze:    "SQUEEZE",
	Unsqueeze:  "UNSQUEEZE",
	Slice:      "SLICE",
	Transpose:  "TRANSPOSE",
	Add:        "ADD",
	Sub:        "SUB",
	Mul:        "MUL",
	Div:        "DIV",
	Exp:        "EXP",
	ReduceSum:  "REDUCE_SUM",
	ReduceMean: "REDUCE_MEAN",
}

// String returns the upper-case operator name, e.g. "REDUCE_SUM".
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// NumInputs returns the number of operands the operator takes.
func (k Kind) NumInputs() int {
	switch k {
	case Add, Sub, Mul, Div:
		return 2
	default:
		return 1
	}
}

// Kinds returns every operator kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind looks up a kind by name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, tensor.AttributeErrorf("unknown operator %q", name)
}
