package main

import "github.com/seventv/cmdparse/cmd"

func main() {
	cmd.Execute()
}
