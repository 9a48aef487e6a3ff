package main

import "starwars-api/cmd/server/commands"

func main() {
	commands.Execute()
}
