// Scratch tool: parse and validate a taskhub.yml, print the effective config.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"taskhub/internal/config"
)

func main() {
	path := "taskhub.yml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.FromFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config invalid:", err)
		os.Exit(1)
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(b))
}
