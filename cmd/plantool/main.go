// Command plantool renders and inspects plan files without the GUI.
package main

import "plan-editor/cmd/plantool/cmd"

func main() {
	cmd.Execute()
}
