// Command hashpw prints a bcrypt hash for use in AUTH_USERS.
package main

import (
	"fmt"
	"os"

	"storefront/pkg/auth"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <username> <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%s:%s\n", os.Args[1], hash)
}
