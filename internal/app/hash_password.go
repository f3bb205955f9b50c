package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ikki-dali/hojokin-cleaner/internal/auth"
)

func runHashPassword(args []string) int {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var password string
	switch fs.NArg() {
	case 0:
		fmt.Fprint(os.Stderr, "Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
			return 1
		}
		password = strings.TrimSpace(line)
	case 1:
		password = strings.TrimSpace(fs.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "hash-password accepts at most one argument")
		return 2
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		return 1
	}

	fmt.Println(hash)
	return 0
}
