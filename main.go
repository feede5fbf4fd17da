package main

import "data-france/cmd"

func main() {
	cmd.Execute()
}
