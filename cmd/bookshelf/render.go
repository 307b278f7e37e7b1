package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jeamon/bookshelf"
)

var (
	header = color.New(color.Bold, color.FgCyan)
	dim    = color.New(color.Faint)
)

func formatDate(t time.Time) string {
	return t.Local().Format("Mon 02 Jan 2006")
}

func printBooks(books []bookshelf.Book) {
	if len(books) == 0 {
		fmt.Println(dim.Sprint("no books"))
		return
	}
	for _, b := range books {
		status := color.GreenString("available")
		if !b.IsAvailable() {
			status = color.YellowString("lent to %s", b.Loan.Borrower)
		}
		author := b.Author
		if author == "" {
			author = "unknown author"
		}
		fmt.Printf("%s  %s  %s  %s\n", dim.Sprint(b.ID), header.Sprint(b.Label()), author, status)
	}
}

func printLoans(onLoan, available []bookshelf.Book) {
	header.Printf("On loan (%d)\n", len(onLoan))
	for _, b := range onLoan {
		due := b.Loan.DueDate
		when := formatDate(due)
		if time.Now().After(due) {
			when = color.RedString("%s, overdue", when)
		}
		fmt.Printf("  %s  %s  %s  due %s\n", dim.Sprint(b.ID), b.Label(), b.Loan.Borrower, when)
	}
	header.Printf("Available (%d)\n", len(available))
	for _, b := range available {
		fmt.Printf("  %s  %s\n", dim.Sprint(b.ID), b.Label())
	}
}

func printDetails(b bookshelf.Book) {
	header.Println(b.Label())
	for _, field := range []struct{ name, value string }{
		{"Subtitle", b.Subtitle},
		{"Author", b.Author},
		{"Publisher", b.Publisher},
		{"Year", b.Year},
		{"Language", b.Language},
		{"Pages", b.Pages},
		{"Image", b.Image},
		{"Url", b.URL},
	} {
		if field.value != "" {
			fmt.Printf("  %-10s %s\n", field.name, field.value)
		}
	}
	if b.Loan != nil {
		fmt.Printf("  %-10s %s, due %s\n", "Loan", b.Loan.Borrower, formatDate(b.Loan.DueDate))
	}
	fmt.Println()
}

// printPanel renders one state of the similar books section.
func printPanel(s bookshelf.PanelState, storeURL string) {
	switch {
	case s.BookID == "":
		return
	case s.Loading:
		fmt.Println(dim.Sprint("looking for similar books..."))
	case len(s.Books) == 0:
		fmt.Println(dim.Sprint("no similar books found"))
	default:
		header.Println("Similar books")
		for _, sb := range s.Books {
			line := sb.Title
			if sb.Subtitle != "" {
				line += ": " + sb.Subtitle
			}
			if sb.Price != "" {
				line += "  " + color.GreenString(strings.TrimSpace(sb.Price))
			}
			fmt.Printf("  %s\n    %s\n", line, dim.Sprint(sb.Link(storeURL)))
		}
	}
}
