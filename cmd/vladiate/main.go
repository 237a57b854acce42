// Command vladiate validates delimited files against the vlads of a vladfile.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
