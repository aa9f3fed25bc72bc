package main

import (
	"os"

	"qbmerge/cmd/qbmerge/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
