package main

import "github.com/nohype/nohype/cmd"

func main() {
	cmd.Execute()
}
