package ir

import "strconv"

// Kind identifies an IR node type.
type Kind int

const (
	_ Kind = iota // zero value is an invalid kind

	KindParameter
	KindMember
	KindConditional
	KindConstant
	KindConstruct
	KindConvert
	KindBinary
	KindNot
	KindInvoke
	KindMapElements
	KindCall
)

var kindNames = map[Kind]string{
	KindParameter:   "Parameter",
	KindMember:      "Member",
	KindConditional: "Conditional",
	KindConstant:    "Constant",
	KindConstruct:   "Construct",
	KindConvert:     "Convert",
	KindBinary:      "Binary",
	KindNot:         "Not",
	KindInvoke:      "Invoke",
	KindMapElements: "MapElements",
	KindCall:        "Call",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Op is a binary operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
}

// IsLogical reports whether the operator combines booleans.
func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr
}
