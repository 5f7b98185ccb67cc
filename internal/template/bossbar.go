package template

import (
	"fmt"
	"slices"
	"strings"
)

var (
	bossbarColors = []string{"blue", "green", "pink", "purple", "red", "white", "yellow"}
	bossbarStyles = []string{"notched_6", "notched_10", "notched_12", "notched_20", "progress"}
	bossbarFields = []string{"max", "players", "value", "visible"}
)

// Bossbar drives the bossbar command.
func Bossbar() *Module {
	id := req("id")
	return &Module{
		Name:    "bossbar",
		Aliases: []string{"template.MinecraftSupport.bossbar"},
		Funcs: []*Func{
			{Name: "add", Params: []Param{id, req("name")}, Fn: bossbarAdd},
			{Name: "remove", Params: []Param{id}, Fn: bossbarRemove},
			{Name: "get", Params: []Param{id, opt("field", String("value"))}, Fn: bossbarGet},
			{Name: "get_value", Params: []Param{id}, Fn: bossbarGetField("value")},
			{Name: "get_max", Params: []Param{id}, Fn: bossbarGetField("max")},
			{Name: "get_players", Params: []Param{id}, Fn: bossbarGetField("players")},
			{Name: "get_visible", Params: []Param{id}, Fn: bossbarGetField("visible")},
			{Name: "set_players", Params: []Param{id, opt("players", String("@a"))}, Fn: bossbarSetPlayers},
			{Name: "set_value", Params: []Param{id, req("value")}, Fn: bossbarSetNumber("value")},
			{Name: "set_max", Params: []Param{id, req("value")}, Fn: bossbarSetNumber("max")},
			{Name: "set_visible", Params: []Param{id, req("visible")}, Fn: bossbarSetVisible},
			{Name: "set_name", Params: []Param{id, req("name")}, Fn: bossbarSetName},
			{Name: "set_color", Params: []Param{id, req("color")}, Fn: bossbarSetColor},
			{Name: "set_style", Params: []Param{id, req("style")}, Fn: bossbarSetStyle},
		},
	}
}

// bossbarID reads the id argument; bare ids live in minecraft:.
func bossbarID(c *Call) (string, error) {
	id, err := c.String("id")
	if err != nil {
		return "", err
	}
	if id == "" || strings.ContainsAny(id, " \n") {
		return "", errorf(badArgument, "invalid bossbar id %q", id)
	}
	if !strings.Contains(id, ":") {
		id = "minecraft:" + id
	}
	return id, nil
}

func bossbarText(c *Call, name string) (string, error) {
	v := c.Arg(name)
	if v.Kind != KindString && v.Kind != KindDict {
		return "", c.bad(name, v, "str or dict")
	}
	comp, err := component(v)
	if err != nil {
		return "", err
	}
	b, err := marshal(comp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func bossbarAdd(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	name, err := bossbarText(c, "name")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bossbar add %s %s\n", id, name), nil
}

func bossbarRemove(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bossbar remove %s\n", id), nil
}

func bossbarGet(c *Call) (string, error) {
	field, err := c.String("field")
	if err != nil {
		return "", err
	}
	if !slices.Contains(bossbarFields, field) {
		return "", errorf(unknownOption, "bossbar field must be one of %s, got %q",
			strings.Join(bossbarFields, "|"), field)
	}
	return bossbarGetField(field)(c)
}

func bossbarGetField(field string) func(*Call) (string, error) {
	return func(c *Call) (string, error) {
		id, err := bossbarID(c)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("execute store result score %s %s run bossbar get %s %s\n",
			c.Result(), c.Env.TempBank, id, field), nil
	}
}

func bossbarSetPlayers(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	players, err := c.String("players")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bossbar set %s players %s\n", id, players), nil
}

func bossbarSetNumber(field string) func(*Call) (string, error) {
	return func(c *Call) (string, error) {
		id, err := bossbarID(c)
		if err != nil {
			return "", err
		}
		v := c.Arg("value")
		if v.Kind == KindName {
			return fmt.Sprintf("execute store result bossbar %s %s run scoreboard players get %s %s\n",
				id, field, v.Ref.Code, v.Ref.Bank), nil
		}
		n, err := c.Score("value")
		if err != nil {
			return "", err
		}
		if n < 0 {
			return "", errorf(badArgument, "bossbar %s must not be negative, got %d", field, n)
		}
		return fmt.Sprintf("bossbar set %s %s %d\n", id, field, n), nil
	}
}

func bossbarSetVisible(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	v := c.Arg("visible")
	if v.Kind != KindBool {
		return "", c.bad("visible", v, "bool")
	}
	return fmt.Sprintf("bossbar set %s visible %t\n", id, v.Bool), nil
}

func bossbarSetName(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	name, err := bossbarText(c, "name")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bossbar set %s name %s\n", id, name), nil
}

func bossbarSetColor(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	color, err := c.String("color")
	if err != nil {
		return "", err
	}
	if !slices.Contains(bossbarColors, color) {
		return "", errorf(unknownOption, "bossbar color must be one of %s, got %q",
			strings.Join(bossbarColors, "|"), color)
	}
	return fmt.Sprintf("bossbar set %s color %s\n", id, color), nil
}

func bossbarSetStyle(c *Call) (string, error) {
	id, err := bossbarID(c)
	if err != nil {
		return "", err
	}
	v := c.Arg("style")
	style := v.Str
	switch v.Kind {
	case KindInt:
		style = fmt.Sprintf("notched_%d", v.Int)
	case KindString:
	default:
		return "", c.bad("style", v, "str or int")
	}
	if !slices.Contains(bossbarStyles, style) {
		return "", errorf(unknownOption, "bossbar style must be one of %s, got %q",
			strings.Join(bossbarStyles, "|"), style)
	}
	return fmt.Sprintf("bossbar set %s style %s\n", id, style), nil
}
