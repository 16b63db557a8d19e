// The heatglass binary is the command line designer.
package main

import "github.com/greenmobile/heatglass/internal/interfaces/cli"

func main() {
	cli.Execute()
}
