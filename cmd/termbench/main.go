package main

import "github.com/sourcegraph/termbench/cmd"

func main() {
	cmd.Execute()
}
