package domain

// NumberOp is a comparison operator on a numeric metadata attribute.
type NumberOp string

const (
	OpGreater      NumberOp = ">"
	OpGreaterEqual NumberOp = ">="
	OpEqual        NumberOp = "="
	OpLessEqual    NumberOp = "<="
	OpLess         NumberOp = "<"
)

// AttributeFilter constrains attribute-filtered retrieval to chunks whose
// structured metadata satisfies the inferred conditions. A zero filter
// means "no constraint inferred" and the attribute retriever contributes
// nothing.
type AttributeFilter struct {
	EctsOp         NumberOp
	EctsValue      *float64
	Responsibility string
}

func (f AttributeFilter) IsZero() bool {
	return f.EctsValue == nil && f.Responsibility == ""
}
