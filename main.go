package main

import "github.com/recipedex/recipedex/cmd"

func main() {
	cmd.Execute()
}
