package main

import "clipcutter/cmd"

func main() {
	cmd.Execute()
}
