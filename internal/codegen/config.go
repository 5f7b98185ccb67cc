package codegen

import (
	"mcfc/internal/datapack"
	"mcfc/internal/namespace"
	"mcfc/internal/version"
)

// Banks names the scoreboard objectives the generated code uses.
type Banks struct {
	Temp       string
	Flags      string
	Vars       string
	Args       string
	FuncResult string
}

// Flags names the constant registers of the flags bank.
type Flags struct {
	True  string
	False string
	Neg   string
}

// Storage names the data storage used for spills.
type Storage struct {
	Root      string
	Temp      string
	LocalVars string
	LocalTemp string
}

// Config holds the naming constants of the generated code.
type Config struct {
	Base        string // function namespace, e.g. "source_code"
	Description string
	PackFormat  int
	ResultExt   string
	Banks       Banks
	Flags       Flags
	Storage     Storage
	Comments    bool
	MaxErrors   uint
	// CodePrefix goes in front of register codes. Empty for a single entry.
	CodePrefix  string
}

// DefaultConfig returns the stock constants.
func DefaultConfig() Config {
	return Config{
		Base:       "source_code",
		PackFormat: version.PackFormat,
		ResultExt:  ".?Result",
		Banks: Banks{
			Temp:       "Py.Temp",
			Flags:      "Py.Flags",
			Vars:       "Py.Vars",
			Args:       "Py.Args",
			FuncResult: "Py.FuncResult",
		},
		Flags: Flags{True: "True", False: "False", Neg: "Neg"},
		Storage: Storage{
			Root:      "mcfc:runtime",
			Temp:      "Temp",
			LocalVars: "LocalVars",
			LocalTemp: "LocalTemp",
		},
		Comments: true,
	}
}

// Runtime describes what the bootstrap function must set up.
func (c Config) Runtime() datapack.Runtime {
	return datapack.Runtime{
		Base:        c.Base,
		Description: c.Description,
		PackFormat:  c.PackFormat,
		Objectives:  []string{c.Banks.Temp, c.Banks.Flags, c.Banks.Vars, c.Banks.Args, c.Banks.FuncResult},
		FlagsBank:   c.Banks.Flags,
		Flags: []datapack.Flag{
			{Name: c.Flags.True, Value: 1},
			{Name: c.Flags.False, Value: 0},
			{Name: c.Flags.Neg, Value: -1},
		},
		Storage: c.Storage.Root,
		Lists:   []string{c.Storage.LocalVars, c.Storage.LocalTemp},
	}
}

func (c Config) spill() namespace.Storage {
	return namespace.Storage{
		Root:      c.Storage.Root,
		Temp:      c.Storage.Temp,
		LocalVars: c.Storage.LocalVars,
		LocalTemp: c.Storage.LocalTemp,
		VarsBank:  c.Banks.Vars,
		TempBank:  c.Banks.Temp,
	}
}

// result is the result register of scope.
func (c Config) result(scope string) string {
	return scope + c.ResultExt
}
