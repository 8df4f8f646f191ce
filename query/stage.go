package query

import (
	"fmt"
	"reflect"

	"shape-mapper/ir"
)

// StageKind identifies a pipeline stage.
type StageKind int

const (
	StageWhere StageKind = iota
	StageSelect
	StageOrderBy
	StageThenBy
)

var stageNames = map[StageKind]string{
	StageWhere:   "where",
	StageSelect:  "select",
	StageOrderBy: "order_by",
	StageThenBy:  "then_by",
}

func (k StageKind) String() string {
	if s, ok := stageNames[k]; ok {
		return s
	}

	return fmt.Sprintf("StageKind(%d)", int(k))
}

// Stage is one deferred operation. Where stages hold a predicate, Select
// stages a projection and ordering stages a sort key.
type Stage struct {
	Kind       StageKind
	Descending bool
	Lambda     *ir.Lambda
}

func (s Stage) String() string {
	name := s.Kind.String()
	if s.Descending {
		name += "_descending"
	}

	return name + "(" + s.Lambda.String() + ")"
}

// Plan is what a provider executes: a source sequence and its stages in
// order.
type Plan struct {
	// Source is a slice of the element type the first stage expects.
	Source reflect.Value
	Stages []Stage
}

// Elem returns the element type produced by the plan.
func (p Plan) Elem() reflect.Type {
	elem := p.Source.Type().Elem()

	for _, s := range p.Stages {
		if s.Kind == StageSelect {
			elem = s.Lambda.Type()
		}
	}

	return elem
}
