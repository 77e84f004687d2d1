package main

import (
	"fmt"

	ucli "github.com/urfave/cli/v2"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
)

func (cli *commandLine) addTeacher(c *ucli.Context) error {
	t, err := cli.teacherSvc.Save(c.Context, teacher.NewTeacher{
		Name:       c.String("name"),
		Email:      c.String("email"),
		Department: c.String("department"),
	})
	if err != nil {
		return core.TranslateValidationErrors(err, cli.translator)
	}
	fmt.Fprintf(cli.out, "teacher saved: %s (%s)\n", t.Label(), t.Department)
	return nil
}
