package main

import (
	"github.com/c9s/smcchart/pkg/cmd"
)

func main() {
	cmd.Execute()
}
