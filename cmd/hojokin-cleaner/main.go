package main

import (
	"os"

	"github.com/ikki-dali/hojokin-cleaner/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
