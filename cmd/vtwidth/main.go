// vtwidth is a utility to measure the width of a string as it will be rendered
// in the terminal
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~tuikit/tuikit/glyph"
)

func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "print verbose result")
	flag.BoolVar(&verbose, "verbose", false, "print verbose result")
	flag.Parse()

	var input string
	switch len(flag.Args()) {
	case 0:
		fmt.Print("Enter text: ")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		input = scanner.Text()
	case 1:
		input = flag.Arg(0)
	default:
		fmt.Println("multiple arguments not supported")
		os.Exit(1)
	}

	w := glyph.StringWidth([]byte(input))
	fmt.Println(w)
	if !verbose {
		return
	}
	for _, m := range []glyph.Method{glyph.Wcwidth, glyph.NoZWJ, glyph.Unicode} {
		fmt.Printf("%-8s %d\n", m, glyph.ClusterWidth(input, m))
	}
	for _, c := range glyph.Clusters(input) {
		fmt.Printf("%q width=%d class=%s\n", c.Text, c.Width, glyph.Classify(c.Base()))
	}
	if w > 0 {
		fmt.Println("|" + strings.Repeat("-", w) + "|")
		fmt.Println("|" + input + "|")
	}
}
