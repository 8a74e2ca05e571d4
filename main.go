package main

import "github.com/twiced-technology-gmbh/teminder/cmd"

func main() {
	cmd.Execute()
}
