package main

import "github.com/cap1tan/wafermap/cmd/wafermap/cmd"

func main() {
	cmd.Execute()
}
