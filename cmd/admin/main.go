// Command admin provisions the operator credentials checked by POST /validate.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cmd, done := newRootCmd()
	err := cmd.Execute()
	done()
	if err != nil {
		os.Exit(1)
	}
}
