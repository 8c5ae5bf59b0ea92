package main

import "auction-marketplace/internal/cmd"

func main() {
	cmd.Execute()
}
