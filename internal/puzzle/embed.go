package puzzle

import "github.com/hmcgraw/holdle/assets"

// embeddedLibrary returns the compiled-in default puzzle library, used
// when no PUZZLES_FILE is configured.
func embeddedLibrary() ([]byte, error) {
	return assets.Puzzles()
}
