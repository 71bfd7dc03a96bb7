package main

import "github.com/obscura-tools/obscura/cmd"

func main() {
	cmd.Execute()
}
