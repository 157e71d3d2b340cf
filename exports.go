package addon

import (
	"fmt"
	"sort"
	"time"

	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/compute"
	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Operation names.
const (
	OpAdd         = "Add"
	OpGetFileList = "GetFileList"
	OpGetPower10  = "GetPower10"
	OpGetPower20  = "GetPower20"
	OpGetPower30  = "GetPower30"
)

var (
	numberParam   = entities.ParamNumber
	functionParam = entities.ParamFunction
)

// operations is the exported operation table.
var operations = []entities.Operation{
	{Name: OpAdd, Params: []entities.ParamKind{numberParam, numberParam}, Returns: entities.ReturnScalar, Mode: entities.ModeSync},
	{Name: OpGetFileList, Params: []entities.ParamKind{}, Returns: entities.ReturnRecordList, Mode: entities.ModeSync},
	{Name: OpGetPower10, Params: []entities.ParamKind{numberParam, functionParam}, Returns: entities.ReturnScalar, Mode: entities.ModeCallback},
	{Name: OpGetPower20, Params: []entities.ParamKind{numberParam}, Returns: entities.ReturnScalar, Mode: entities.ModePromise},
	{Name: OpGetPower30, Params: []entities.ParamKind{numberParam, functionParam}, Returns: entities.ReturnScalar, Mode: entities.ModeCallback},
}

// Operations returns the exported operation table sorted by name.
func Operations() []entities.Operation {
	out := make([]entities.Operation, len(operations))
	copy(out, operations)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func lookupOperation(name string) (entities.Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return entities.Operation{}, false
}

// buildBindings builds the native side of every operation for m.
func (m *Module) buildBindings() map[string]binding.Binding {
	step := m.cfg.StepDelay()
	natives := map[string]struct {
		fn        binding.Native
		dedicated bool
	}{
		OpAdd:         {fn: nativeAdd},
		OpGetFileList: {fn: m.nativeFileList},
		OpGetPower10:  {fn: nativePower(10, step)},
		OpGetPower20:  {fn: nativePower(20, step)},
		// GetPower30 runs on its own producer goroutine without step latency.
		OpGetPower30: {fn: nativePower(30, 0), dedicated: true},
	}

	out := make(map[string]binding.Binding, len(operations))
	for _, op := range operations {
		n := natives[op.Name]
		out[op.Name] = binding.Binding{Op: op, Fn: n.fn, Dedicated: n.dedicated}
	}
	return out
}

func nativeAdd(args []any) (any, error) {
	a, _ := args[0].(int32)
	b, _ := args[1].(int32)
	return compute.Add(a, b), nil
}

func (m *Module) nativeFileList(_ []any) (any, error) {
	records, err := m.lister.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func nativePower(exp int, step time.Duration) binding.Native {
	return func(args []any) (any, error) {
		n, _ := args[0].(int32)
		return compute.Power(n, exp, step)
	}
}
