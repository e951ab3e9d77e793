package utils

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// Fatal prints err to stderr and exits.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
