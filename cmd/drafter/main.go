package main

import "os"

func main() {
	root, a := newRootCmd()
	if err := execute(root, a); err != nil {
		os.Exit(1)
	}
}
