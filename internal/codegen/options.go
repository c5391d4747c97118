package codegen

import (
	"fmt"

	"vuec/internal/diag"
)

// Mode selects the shape of the generated program.
type Mode uint8

const (
	// ModeModule emits an ES module importing helpers from the runtime.
	ModeModule Mode = iota
	// ModeFunction emits a function body reading helpers from a global.
	ModeFunction
)

func (m Mode) String() string {
	switch m {
	case ModeModule:
		return "module"
	case ModeFunction:
		return "function"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode accepts "module" and "function".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "module", "":
		return ModeModule, nil
	case "function":
		return ModeFunction, nil
	}
	return 0, fmt.Errorf("unknown codegen mode %q", s)
}

type Options struct {
	Mode Mode
	// Dev adds patch flag annotations and keeps development-only bits.
	Dev bool
	// RuntimeModule is the import source in module mode.
	RuntimeModule string
	// RuntimeGlobal is the runtime object in function mode.
	RuntimeGlobal string
	// CustomHelpers names helper ids from flags.ReservedMax upwards.
	CustomHelpers []string
	Reporter      diag.Reporter
}

func (o Options) runtimeModule() string {
	if o.RuntimeModule == "" {
		return "vue"
	}
	return o.RuntimeModule
}

func (o Options) runtimeGlobal() string {
	if o.RuntimeGlobal == "" {
		return "Vue"
	}
	return o.RuntimeGlobal
}
