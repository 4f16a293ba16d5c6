// Command pagesearch solves sliding-tile puzzles with the pagesearch engine.
//
//	pagesearch solve --width 4 --scramble 60 --workers 4 --stats
//	pagesearch solve --config search.yaml --tiles "1 2 3 4 5 6 0 7 8"
//	pagesearch scramble --width 3 --moves 30 --seed 7
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
