package main

import "vlivedl/cmd"

func main() {
	cmd.Execute()
}
