package main

import "github.com/chrisdamba/traveltime/cmd"

func main() {
	cmd.Execute()
}
