package main

import "github.com/deidaraiorek/deistem/cmd"

func main() {
	cmd.Execute()
}
