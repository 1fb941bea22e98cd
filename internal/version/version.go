package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner shared by all qlite binaries.
func asciiArtTpl() string {
	asciiArt := `
         ___ __
  ____ _/ (_) /____
 / __ ` + "`" + `/ / / __/ _ \
/ /_/ / / / /_/  __/
\__, /_/_/\__/\___/
  /_/
%s ` + Version + `
A small workbench for SQLite databases`

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// ShellVersion returns the version banner of the qlite shell.
func ShellVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Shell")
}

// ImporterVersion returns the version banner of qlitecsv.
func ImporterVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CSV Importer")
}

// BenchVersion returns the version banner of qlitebench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}
