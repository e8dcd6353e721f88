package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/sqlcraft/sqlcraft"
)

// DialectsCmd lists the dialects the registry's clause-order-fn and
// quoting table know about.
type DialectsCmd struct{}

func (cmd *DialectsCmd) Run(_ *Context) error {
	for _, d := range sqlcraft.Dialects() {
		fmt.Println(color.GreenString(string(d)))
	}

	return nil
}
