package main

import "github.com/timvw/tmux-persist/cmd"

func main() {
	cmd.Execute()
}
