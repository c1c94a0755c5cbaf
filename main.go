package main

import "github.com/jmehdipour/notify-relay/cmd"

func main() {
	cmd.Execute()
}
