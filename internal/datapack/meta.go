package datapack

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// Flag is a constant register of the flags bank.
type Flag struct {
	Name  string
	Value int32
}

// Runtime describes the registers and storage the emitted code relies on.
type Runtime struct {
	Base        string
	Description string
	PackFormat  int
	Objectives  []string
	FlagsBank   string
	Flags       []Flag
	Storage     string   // e.g. "mcfc:runtime"
	Lists       []string // storage paths reset to [] on load
}

// InitFunction is the id of the bootstrap function.
func (rt Runtime) InitFunction() string {
	return rt.Base + ":mcfc/init"
}

type packMeta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

type functionTag struct {
	Values []string `json:"values"`
}

// WriteMeta writes pack.mcmeta and hooks the bootstrap function into
// the minecraft:load tag.
func WriteMeta(s Sink, rt Runtime) error {
	var meta packMeta
	meta.Pack.PackFormat = rt.PackFormat
	meta.Pack.Description = rt.Description
	if err := writeJSON(s, "pack.mcmeta", meta); err != nil {
		return err
	}
	tag := functionTag{Values: []string{rt.InitFunction()}}
	return writeJSON(s, path.Join("data", "minecraft", "tags", "function", "load.json"), tag)
}

// BootstrapCode renders the body of the bootstrap function.
func BootstrapCode(rt Runtime) string {
	var sb strings.Builder
	for _, obj := range rt.Objectives {
		fmt.Fprintf(&sb, "scoreboard objectives add %s dummy\n", obj)
	}
	for _, f := range rt.Flags {
		fmt.Fprintf(&sb, "scoreboard players set %s %s %d\n", f.Name, rt.FlagsBank, f.Value)
	}
	for _, l := range rt.Lists {
		fmt.Fprintf(&sb, "data modify storage %s %s set value []\n", rt.Storage, l)
	}
	return sb.String()
}

// Bootstrap writes the bootstrap function.
func Bootstrap(s Sink, rt Runtime) error {
	return WriteFile(s, FunctionFile(rt.Base, `mcfc\init`), BootstrapCode(rt))
}

func writeJSON(s Sink, name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return WriteFile(s, name, string(b)+"\n")
}
