package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/devlinb/EscapeRoom/internal/crypto"
	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/store"
)

func main() {
	agentName := flag.String("agent", "", "Agent name (prints the store key as well)")
	salt := flag.String("salt", "", "Salt (defaults to SALT from the environment or .env)")
	flag.Parse()

	_ = godotenv.Load()
	if *salt == "" {
		*salt = os.Getenv("SALT")
	}

	deriver, err := crypto.NewDeriver(*salt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: secret [-agent <name>] [-salt <salt>] < password")
		fmt.Fprintln(os.Stderr, "  Reads the password from stdin; SALT must be set")
		os.Exit(1)
	}

	password, err := readPassword(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
		os.Exit(1)
	}

	if *agentName != "" {
		if !escaperoom.ValidAgentName(*agentName) {
			fmt.Fprintf(os.Stderr, "Invalid agent name %q\n", *agentName)
			os.Exit(1)
		}
		fmt.Printf("Key:    %s\n", store.SecretKey(*agentName))
	}
	fmt.Printf("Secret: %s\n", deriver.Derive(password))
}

// readPassword reads the first line of r without its line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
