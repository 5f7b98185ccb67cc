package template

import (
	"fmt"
	"strings"
)

// EnvBuild prepares scoreboards the program expects to exist.
func EnvBuild() *Module {
	return &Module{
		Name:    "envbuild",
		Aliases: []string{"template.MinecraftSupport.EnvBuild"},
		Funcs: []*Func{
			{Name: "build_scoreboard", Params: []Param{req("objective"), req("value")}, Fn: buildScoreboard},
		},
	}
}

func buildScoreboard(c *Call) (string, error) {
	objective, err := c.String("objective")
	if err != nil {
		return "", err
	}
	values := c.Arg("value")
	if values.Kind != KindDict {
		return "", c.bad("value", values, "dict")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "scoreboard objectives add %s dummy\n", objective)
	for _, e := range values.Dict {
		n, ok := e.Value.Score()
		if !ok {
			return "", errorf(badArgument, "score of %q must be int, got %s", e.Key, e.Value.Kind)
		}
		fmt.Fprintf(&sb, "scoreboard players set %s %s %d\n", e.Key, objective, n)
	}
	return sb.String(), nil
}
