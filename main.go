package main

import "github.com/mireles/ontoground/cmd"

func main() {
	cmd.Execute()
}
