// Command missiongen prints the mission a seed generates, solutions
// included, so a replay can be checked without running the server.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
