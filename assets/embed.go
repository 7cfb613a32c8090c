package assets

import "embed"

//go:embed puzzles.json
var FS embed.FS

// Puzzles returns the raw embedded default puzzle library.
func Puzzles() ([]byte, error) {
	return FS.ReadFile("puzzles.json")
}
