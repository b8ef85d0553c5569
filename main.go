package main

import (
	"fmt"
	"os"

	"get.pme.sh/atomix/cmd"
	"get.pme.sh/atomix/revision"
)

func main() {
	if len(os.Args) == 2 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Println(revision.GetVersion())
			os.Exit(0)
		}
	}
	cmd.Execute()
}
