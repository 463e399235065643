package main

import "github.com/lucasalcantarap/TaskMine/cmd/taskmine/root"

func main() {
	root.Execute()
}
