package main

import "github.com/denysvitali/ftptube-go/cmd"

func main() {
	cmd.Execute()
}
