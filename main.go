// The main package for the cfaxdlr executable.
package main

import (
	"github.com/deg0at/cfaxdlr/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
