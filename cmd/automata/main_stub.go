//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of automata requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/automata` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For runs without a window see ./cmd/headless and ./cmd/voxelserver.")
	os.Exit(2)
}
