package main

import "newsroom/cmd/seed/commands"

func main() {
	commands.Execute()
}
