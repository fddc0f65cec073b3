package main

import (
	"github.com/Rutvik2598/PostPolice/cmd"
)

func main() {
	cmd.Execute()
}
