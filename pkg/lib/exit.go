package lib

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// Exit prints the error to stderr and exits the program with code 1.
func Exit(err error) {
	PrintError(os.Stderr, err)
	os.Exit(1)
}

// PrintError writes err as "Error: <message>" with a styled label.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorLabel.Render("Error:"), err)
}
