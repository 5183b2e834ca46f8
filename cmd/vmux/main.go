package main

import (
	"os"

	"github.com/CandySunPlus/vmux/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
