package query

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"

	"shape-mapper/ir"
)

// Provider executes plans. Capabilities lists the optional IR node kinds the
// provider translates; stages using anything else are rejected when added.
type Provider interface {
	Capabilities() ir.Capabilities
	Execute(ctx context.Context, p Plan) (reflect.Value, error)
}

// AllCapabilities is every optional node kind.
var AllCapabilities = ir.Capabilities{Conditionals: true, Invocations: true, Collections: true, Calls: true}

// MemoryProvider runs plans over in-memory slices by compiling every stage.
type MemoryProvider struct {
	caps   ir.Capabilities
	logger *zap.Logger
}

// MemoryOption configures a MemoryProvider.
type MemoryOption func(*MemoryProvider)

// WithCapabilities restricts the node kinds the provider accepts. Useful to
// check that a pipeline stays translatable by a narrower provider.
func WithCapabilities(c ir.Capabilities) MemoryOption {
	return func(p *MemoryProvider) { p.caps = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) MemoryOption {
	return func(p *MemoryProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewMemoryProvider creates a provider accepting all node kinds.
func NewMemoryProvider(opts ...MemoryOption) *MemoryProvider {
	p := &MemoryProvider{caps: AllCapabilities, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Capabilities implements Provider.
func (p *MemoryProvider) Capabilities() ir.Capabilities { return p.caps }

type sortKey struct {
	fn   ir.Func
	desc bool
}

// Execute implements Provider. Sorting is stable; consecutive order_by and
// then_by stages are applied as one multi-key sort.
func (p *MemoryProvider) Execute(ctx context.Context, plan Plan) (reflect.Value, error) {
	start := time.Now()

	items := make([]reflect.Value, plan.Source.Len())
	for i := range items {
		items[i] = plan.Source.Index(i)
	}

	elem := plan.Source.Type().Elem()

	var keys []sortKey

	for i, s := range plan.Stages {
		if err := ctx.Err(); err != nil {
			return reflect.Value{}, err
		}

		fn, err := ir.Compile(s.Lambda)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("stage %d %s: %w", i, s.Kind, err)
		}

		if s.Kind != StageThenBy && len(keys) > 0 {
			if items, err = sortItems(items, keys); err != nil {
				return reflect.Value{}, fmt.Errorf("stage %d %s: %w", i, s.Kind, err)
			}

			keys = nil
		}

		switch s.Kind {
		case StageWhere:
			items, err = filterItems(items, fn)
		case StageSelect:
			items, err = selectItems(items, fn)
			elem = s.Lambda.Type()
		case StageOrderBy, StageThenBy:
			keys = append(keys, sortKey{fn: fn, desc: s.Descending})
		default:
			err = fmt.Errorf("%w: unsupported stage %s", ErrInvalidStage, s.Kind)
		}

		if err != nil {
			return reflect.Value{}, fmt.Errorf("stage %d %s: %w", i, s.Kind, err)
		}
	}

	if len(keys) > 0 {
		var err error
		if items, err = sortItems(items, keys); err != nil {
			return reflect.Value{}, fmt.Errorf("order: %w", err)
		}
	}

	out := reflect.MakeSlice(reflect.SliceOf(elem), 0, len(items))
	out = reflect.Append(out, items...)

	p.logger.Debug("plan executed",
		zap.Int("stages", len(plan.Stages)),
		zap.Int("rows", len(items)),
		zap.Duration("took", time.Since(start)))

	return out, nil
}

func filterItems(items []reflect.Value, pred ir.Func) ([]reflect.Value, error) {
	out := items[:0:0]

	for _, it := range items {
		ok, err := pred(it)
		if err != nil {
			return nil, err
		}

		if ok.Bool() {
			out = append(out, it)
		}
	}

	return out, nil
}

func selectItems(items []reflect.Value, sel ir.Func) ([]reflect.Value, error) {
	out := make([]reflect.Value, len(items))

	for i, it := range items {
		v, err := sel(it)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

type keyedItem struct {
	item reflect.Value
	keys []reflect.Value
}

func sortItems(items []reflect.Value, keys []sortKey) ([]reflect.Value, error) {
	rows := make([]keyedItem, len(items))

	for i, it := range items {
		rows[i] = keyedItem{item: it, keys: make([]reflect.Value, len(keys))}

		for k, key := range keys {
			v, err := key.fn(it)
			if err != nil {
				return nil, err
			}

			rows[i].keys[k] = v
		}
	}

	var cmpErr error

	slices.SortStableFunc(rows, func(a, b keyedItem) int {
		for k, key := range keys {
			c, err := ir.CompareValues(a.keys[k], b.keys[k])
			if err != nil {
				cmpErr = cmp.Or(cmpErr, err)
				return 0
			}

			if key.desc {
				c = -c
			}

			if c != 0 {
				return c
			}
		}

		return 0
	})

	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]reflect.Value, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}

	return out, nil
}
