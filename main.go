package main

import "github.com/deploymenttheory/go-hfs/cmd"

func main() {
	cmd.Execute()
}
