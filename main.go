package main

import "github.com/kugo-bot/kugo/cmd"

func main() {
	cmd.Execute()
}
