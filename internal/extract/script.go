package extract

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dop251/goja"

	"github.com/PixPMusic/gopher-mixxx/internal/binding"
)

// tableCall evaluates the table a script exposes through MIDI_MAPPINGS.
const tableCall = "\n;typeof MIDI_MAPPINGS === 'function' ? MIDI_MAPPINGS() : {}"

// Script runs a legacy JavaScript mapping in a fresh sandbox and returns the
// table exposed by its MIDI_MAPPINGS function. Scripts without one yield no
// bindings.
func Script(name, src string) (bindings []binding.Binding, err error) {
	defer func() {
		if r := recover(); r != nil {
			bindings = nil
			err = &Error{Source: name, Err: panicError(r)}
		}
	}()

	vm := goja.New()
	if err := installStubs(vm); err != nil {
		return nil, &Error{Source: name, Err: err}
	}

	value, err := vm.RunScript(name, src+tableCall)
	if err != nil {
		return nil, &Error{Source: name, Err: err}
	}

	table, err := exportTable(value)
	if err != nil {
		return nil, &Error{Source: name, Err: err}
	}
	return binding.FromTable(table), nil
}

func exportTable(value goja.Value) (binding.Table, error) {
	table := make(binding.Table)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return table, nil
	}

	rows, ok := value.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("MIDI_MAPPINGS returned %s, not an object", value.ExportType())
	}

	keys := make([]string, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		control, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("table key %q is not a control number", key)
		}
		if control < 0 || control > binding.MaxControl {
			return nil, fmt.Errorf("table key %d is not a MIDI control", control)
		}

		row, ok := rows[key].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("table row %d is not an object", control)
		}
		table[control] = binding.TableEntry{
			Description: stringField(row, "description"),
			Group:       stringField(row, "group"),
			Key:         stringField(row, "key"),
			Type:        stringField(row, "type"),
		}
	}
	return table, nil
}

func stringField(row map[string]interface{}, name string) string {
	if s, ok := row[name].(string); ok {
		return s
	}
	return ""
}

// installStubs exposes the inert runtime surface: reads return 0, writes
// and MIDI output are dropped and connections do nothing.
func installStubs(vm *goja.Runtime) error {
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	zero := func(goja.FunctionCall) goja.Value { return vm.ToValue(0) }

	connection := func(goja.FunctionCall) goja.Value {
		conn := vm.NewObject()
		_ = conn.Set("trigger", noop)
		_ = conn.Set("disconnect", noop)
		return conn
	}

	objects := map[string]map[string]interface{}{
		"engine": {
			"getValue":       zero,
			"setValue":       noop,
			"getParameter":   zero,
			"setParameter":   noop,
			"makeConnection": connection,
			"connectControl": noop,
			"toggleControl":  noop,
			"beginTimer":     zero,
			"stopTimer":      noop,
		},
		"midi": {
			"sendShortMsg": noop,
			"sendSysexMsg": noop,
		},
		"script": {
			"toggleControl": noop,
		},
		"console": {
			"log": noop,
		},
		"npmUtil": {},
	}

	var errs []error
	for name, methods := range objects {
		obj := vm.NewObject()
		for method, fn := range methods {
			errs = append(errs, obj.Set(method, fn))
		}
		errs = append(errs, vm.Set(name, obj))
	}
	errs = append(errs, vm.Set("print", noop))
	return errors.Join(errs...)
}
