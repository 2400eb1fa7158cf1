package main

import (
	"github.com/sidkik/datasync/cmd"
	"github.com/sidkik/datasync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
