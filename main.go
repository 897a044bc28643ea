package main

import (
	"os"

	"mysh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
