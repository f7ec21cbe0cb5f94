// Package jsproc implements procedures written in JavaScript and run by the
// goja interpreter.
//
// The "code" data binding holds the function body; its return value is the
// procedure result. Every other binding is visible as a global variable:
// data and argument bindings hold their values, procedure bindings are
// functions calling the sub-procedure with positional arguments. Scripts
// may also use:
//
//	call(name, args...)  execute any procedure by name
//	log(msg)             append to the call trace
package jsproc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Type is the procedure type name.
const Type = "javascript"

// BindingCode is the name of the data binding holding the script.
const BindingCode = "code"

// Procedure is a JavaScript procedure. The script is compiled once; each
// call runs it in a fresh runtime.
type Procedure struct {
	procedure.Base
	program *goja.Program
}

// New builds a procedure from its stored definition. It implements
// library.Factory.
func New(def *procedure.Definition) (procedure.Procedure, error) {
	base, err := procedure.BaseFromDefinition(def)
	if err != nil {
		return nil, err
	}
	b := base.Bindings()
	if typ, err := b.Type(BindingCode); err != nil || typ != procedure.TypeData {
		return nil, procedure.Errorf(procedure.ErrBinding, "missing %q data binding", BindingCode)
	}
	src := "(function() {\n" + b.StringOr(BindingCode, "") + "\n})()"
	program, err := goja.Compile(def.ID, src, true)
	if err != nil {
		return nil, &procedure.Error{Kind: procedure.ErrBinding, Msg: "invalid script", Err: err}
	}
	return &Procedure{Base: base, program: program}, nil
}

// Call implements procedure.Procedure.
func (p *Procedure) Call(cx procedure.CallContext, args *procedure.Bindings) (any, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	for _, name := range args.Names() {
		if name == BindingCode {
			continue
		}
		if err := p.bind(vm, cx, args, name); err != nil {
			return nil, err
		}
	}
	if err := vm.Set("call", func(name string, callArgs ...any) any {
		res, err := cx.Execute(name, callArgs)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return res
	}); err != nil {
		return nil, err
	}
	if err := vm.Set("log", func(v goja.Value) {
		cx.Log(stringify(v))
	}); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-cx.Done():
			vm.Interrupt(cx.Err())
		case <-done:
		}
	}()

	v, err := vm.RunProgram(p.program)
	if err != nil {
		return nil, translate(err)
	}
	return export(v)
}

// bind exposes one binding to the script.
func (p *Procedure) bind(vm *goja.Runtime, cx procedure.CallContext, args *procedure.Bindings, name string) error {
	typ, err := args.Type(name)
	if err != nil {
		return err
	}
	value := args.ValueOr(name, nil)
	if typ == procedure.TypeProcedure {
		sub, ok := value.(procedure.Procedure)
		if !ok {
			return procedure.Errorf(procedure.ErrBinding, "procedure binding %q is not resolved", name)
		}
		value = func(callArgs ...any) any {
			res, err := cx.Invoke(sub, callArgs...)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return res
		}
	}
	return vm.Set(name, value)
}

// translate converts script failures into procedure errors. Errors raised
// by nested procedure calls keep their kind.
func translate(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &procedure.Error{Kind: procedure.ErrInterrupted, Msg: "script interrupted", Err: err}
	}
	var perr *procedure.Error
	if errors.As(err, &perr) {
		return perr
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		if obj, ok := exc.Value().(*goja.Object); ok {
			if v := obj.Get("value"); v != nil {
				if goErr, ok := v.Export().(error); ok && errors.As(goErr, &perr) {
					return perr
				}
			}
		}
		return &procedure.Error{Kind: procedure.ErrExecution, Msg: "script error", Err: errors.New(exc.Error())}
	}
	return &procedure.Error{Kind: procedure.ErrExecution, Msg: "script error", Err: err}
}

// export converts a script value to plain Go data.
func export(v goja.Value) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	x := v.Export()
	switch x.(type) {
	case map[string]any, []any:
		// Round trip nested values so that script objects become JSON data.
		bs, err := json.Marshal(x)
		if err != nil {
			return nil, &procedure.Error{Kind: procedure.ErrExecution, Msg: "unserializable script result", Err: err}
		}
		var out any
		if err := json.Unmarshal(bs, &out); err != nil {
			return nil, &procedure.Error{Kind: procedure.ErrExecution, Msg: "unserializable script result", Err: err}
		}
		return out, nil
	default:
		return x, nil
	}
}

// stringify formats a script value for the trace log.
func stringify(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	switch x := v.Export().(type) {
	case string:
		return x
	case map[string]any, []any:
		bs, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(bs)
	default:
		return v.String()
	}
}
