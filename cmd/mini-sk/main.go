package main

import (
	"fmt"
	"os"

	"go.brendoncarroll.net/star"

	"github.com/imneme/mini-sk/skcmd"
	"github.com/imneme/mini-sk/skmem"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*skmem.Fatal)
			if !ok {
				panic(r)
			}
			fmt.Fprintln(os.Stderr, f.Msg)
			os.Exit(f.Status)
		}
	}()
	star.Main(skcmd.Root())
}
