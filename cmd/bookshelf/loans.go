package main

import (
	"errors"
	"fmt"

	"github.com/jeamon/bookshelf"
	"github.com/spf13/cobra"
)

func newLoanCmd() *cobra.Command {
	var (
		borrower string
		weeks    int
	)
	cmd := &cobra.Command{
		Use:   "loan <id>",
		Short: "Lend an available book",
		Long: fmt.Sprintf(`Lend an available book to someone.

The loan period goes from %d to %d weeks and the due date is
computed once, when the loan is created.`, bookshelf.MinLoanWeeks, bookshelf.MaxLoanWeeks),
		Example: `  bookshelf loan b:0c6f... --to "Alice" --weeks 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := bookshelf.LoanRequest{BookID: args[0], Borrower: borrower, Weeks: weeks}
			if err := req.Validate(); err != nil {
				return err
			}
			book, found := app.Store.Get(req.BookID)
			if !found {
				return fmt.Errorf("book %q not found", req.BookID)
			}
			if !book.IsAvailable() {
				return errors.New("this book is already on loan")
			}

			lent, found, err := app.Store.CreateLoan(cmd.Context(), req.BookID, req.Borrower, req.Weeks)
			if !found {
				return fmt.Errorf("book %q not found", req.BookID)
			}
			if err != nil {
				warn("loan created but not saved: %v", err)
			}
			ok("%s lent to %s until %s", lent.Label(), lent.Loan.Borrower, formatDate(lent.Loan.DueDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&borrower, "to", "", "Name of the borrower")
	cmd.Flags().IntVar(&weeks, "weeks", 2, "Loan period in weeks")
	return cmd
}

func newLoansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List the books currently on loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLoans(app.Store.OnLoan(), app.Store.Available())
			return nil
		},
	}
}
