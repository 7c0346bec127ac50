package utils

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncName returns the fully qualified runtime name of the function passed
// as an argument, e.g. "github.com/acme/app/store.Open" or
// "github.com/acme/app.(*Server).Init". If the argument is nil, it returns
// "<nil>". If the argument is not a function, it returns "<not a function>".
func FuncName(f any) string {
	if IsNilish(f) {
		return "<nil>"
	}

	val := reflect.ValueOf(f)
	if val.Kind() != reflect.Func {
		return "<not a function>"
	}

	funcPtr := runtime.FuncForPC(val.Pointer())
	if funcPtr == nil {
		return "<not a function>"
	}

	return funcPtr.Name()
}

// BaseFuncName returns the unqualified form of a runtime function name:
// the import path and package prefix are stripped, receiver formatting is
// kept, and the "-fm" suffix the runtime appends to method values is
// removed. "github.com/acme/app.(*Server).Init-fm" becomes "(*Server).Init"
// and "github.com/acme/app.Open" becomes "Open".
func BaseFuncName(f any) string {
	name := FuncName(f)
	if strings.HasPrefix(name, "<") {
		return name
	}

	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	return strings.TrimSuffix(name, "-fm")
}
