package main

import "github.com/Komeii/courseweb/cmd"

func main() {
	cmd.Execute()
}
