package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	// Rule separates a section label from its rows.
	Rule = "--------------------------------------"

	footerRule = "--------------------"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// PrintSuccess writes "[SUCCESS] <msg>".
func PrintSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprint(w, "[SUCCESS]")
	_, _ = fmt.Fprintf(w, " %s\n", msg)
}

// PrintError writes "[ERROR]: <err>".
func PrintError(w io.Writer, err error) {
	_, _ = errorColor.Fprint(w, "[ERROR]")
	_, _ = fmt.Fprintf(w, ": %v\n", err)
}

// PrintCreated writes the banner that follows a successful initialization.
func PrintCreated(w io.Writer) {
	PrintSuccess(w, "DATABASE CREATED SUCCESSFULLY!")
	_, _ = fmt.Fprintln(w, Rule)
}

// PrintCompleted writes the closing banner naming the database file.
func PrintCompleted(w io.Writer, dbPath string) {
	_, _ = fmt.Fprintf(w, "\n%s\n", footerRule)
	PrintSuccess(w, "ALL SQL OPERATIONS COMPLETED!")
	_, _ = fmt.Fprintln(w, footerRule)
	_, _ = fmt.Fprintf(w, "\nDatabase file created: %s\n", dbPath)
}
