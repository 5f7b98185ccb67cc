package template

import "fmt"

// Scoreboard reads and writes arbitrary scoreboard entries.
func Scoreboard() *Module {
	return &Module{
		Name:    "scoreboard",
		Aliases: []string{"template.MinecraftSupport.scoreboard"},
		Funcs: []*Func{
			{Name: "get_score", Params: []Param{req("name"), req("objective")}, Fn: getScore},
			{Name: "write_score", Params: []Param{req("name"), req("objective"), req("value")}, Fn: writeScore},
		},
	}
}

func holder(c *Call) (name, objective string, err error) {
	if name, err = c.String("name"); err != nil {
		return "", "", err
	}
	if objective, err = c.String("objective"); err != nil {
		return "", "", err
	}
	return name, objective, nil
}

func getScore(c *Call) (string, error) {
	name, objective, err := holder(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("scoreboard players operation %s %s = %s %s\n",
		c.Result(), c.Env.TempBank, name, objective), nil
}

func writeScore(c *Call) (string, error) {
	name, objective, err := holder(c)
	if err != nil {
		return "", err
	}
	v := c.Arg("value")
	if v.Kind == KindName {
		return fmt.Sprintf("scoreboard players operation %s %s = %s %s\n",
			name, objective, v.Ref.Code, v.Ref.Bank), nil
	}
	n, err := c.Score("value")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("scoreboard players set %s %s %d\n", name, objective, n), nil
}
