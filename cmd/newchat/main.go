package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := makeApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
