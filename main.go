package main

import "reserveit/cmd"

func main() {
	cmd.Execute()
}
