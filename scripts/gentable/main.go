// Regenerates the embedded state-pair payoff table.
// Run with: go run ./scripts/gentable > internal/outcome/state_pair_payoffs.txt
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/Harshitk-cp/peckorder/internal/outcome"
)

func main() {
	out := flag.String("o", "", "write to this file instead of stdout")
	flag.Parse()

	f := os.Stdout
	if *out != "" {
		var err error
		f, err = os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
	}

	w := bufio.NewWriter(f)
	if err := outcome.Write(w, outcome.Generate()); err != nil {
		log.Fatalf("write table: %v", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
}
