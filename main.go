package main

import "github.com/mohelwah/inkwell/cmd"

func main() {
	cmd.Execute()
}
