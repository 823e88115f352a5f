package main

import "github.com/suderio/draconic-maneuvers/cmd"

func main() {
	cmd.Execute()
}
