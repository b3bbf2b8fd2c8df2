package main

import "github.com/deploymenttheory/go-iso9660/cmd"

func main() {
	cmd.Execute()
}
