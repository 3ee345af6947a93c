package main

import "github.com/notargets/hydro1d/cmd"

func main() {
	cmd.Execute()
}
