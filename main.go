package main

import "github.com/mouse-blink/bugscope/cmd"

func main() {
	cmd.Execute()
}
