package main

import "parking-sync/cmd"

func main() {
	cmd.Execute()
}
