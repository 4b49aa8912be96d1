// Escape room CLI - command line client for the escape room API
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/devlinb/EscapeRoom/clients/go/escaperoom"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := escaperoom.NewClient(os.Getenv("ESCAPEROOM_URL"))
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health()
		if resp != nil {
			printJSON(resp)
		}
		exitOnError(err)

	case "join":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: escaperoom join <agent name>")
			os.Exit(1)
		}
		resp, err := client.CreateOrLoad(strings.Join(os.Args[2:], " "), password())
		exitOnError(err)
		fmt.Println(resp.Message)
		fmt.Printf("Room has %d puzzle(s)\n", len(resp.RoomData))

	case "puzzle":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: escaperoom puzzle <number>")
			os.Exit(1)
		}
		resp, err := client.GetPuzzle(puzzleNumber(os.Args[2]))
		exitOnError(err)
		printJSON(resp.Puzzle)

	case "guess":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: escaperoom guess <number> <answer>")
			os.Exit(1)
		}
		resp, err := client.CheckSolution(puzzleNumber(os.Args[2]), strings.Join(os.Args[3:], " "))
		exitOnError(err)
		fmt.Println(resp.Message)

	case "save":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: escaperoom save <room.json>")
			os.Exit(1)
		}
		data, err := os.ReadFile(os.Args[2])
		exitOnError(err)
		var room []escaperoom.Puzzle
		exitOnError(json.Unmarshal(data, &room))
		exitOnError(client.SaveRoom(password(), room))
		fmt.Printf("Saved %d puzzle(s)\n", len(room))

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Escape room CLI

Usage: escaperoom <command> [options]

Commands:
  join <agent name>         Create the agent or load its room
  puzzle <number>           Show a puzzle of your room
  guess <number> <answer>   Check an answer
  save <room.json>          Replace your room with a JSON array of puzzles
  health                    Check server health

Environment:
  ESCAPEROOM_URL        Server URL (default: http://localhost:3000)
  ESCAPEROOM_PASSWORD   Agent password (join, save)
  ESCAPEROOM_CONFIG     Config directory (default: ~/.escaperoom)`)
}

func password() string {
	pw := os.Getenv("ESCAPEROOM_PASSWORD")
	if pw == "" {
		fmt.Fprintln(os.Stderr, "ESCAPEROOM_PASSWORD is not set")
		os.Exit(1)
	}
	return pw
}

func puzzleNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid puzzle number: %s\n", s)
		os.Exit(1)
	}
	return n
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
