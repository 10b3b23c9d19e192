// Command hashpw reads the moderator password from the terminal without
// echo and prints its argon2id digest in PHC format, ready to be used as
// admin_password_hash in the server configuration.
package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/suggestbox/internal/server/auth"
	"golang.org/x/term"
)

func main() {
	fmt.Fprint(os.Stderr, "Enter moderator password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	confirmation, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}

	if string(password) != string(confirmation) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
