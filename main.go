package main

import "github.com/ScottyLabs/terrier/cmd"

func main() {
	cmd.Execute()
}
