package main

import "github.com/alexthemitchell/rad.io/cmd"

func main() {
	cmd.Execute()
}
