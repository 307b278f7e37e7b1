package main

import (
	"fmt"

	"github.com/jeamon/bookshelf"
	"github.com/spf13/cobra"
)

// bookFlags binds the editable book fields to command flags.
type bookFlags struct {
	book bookshelf.Book
}

func (bf *bookFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&bf.book.Title, "title", "", "Book title")
	f.StringVar(&bf.book.Subtitle, "subtitle", "", "Book subtitle")
	f.StringVar(&bf.book.Author, "author", "", "Book author")
	f.StringVar(&bf.book.Publisher, "publisher", "", "Book publisher")
	f.StringVar(&bf.book.Year, "year", "", "Publication year")
	f.StringVar(&bf.book.Language, "language", "", "Book language")
	f.StringVar(&bf.book.Pages, "pages", "", "Number of pages")
	f.StringVar(&bf.book.Image, "image", "", "Cover image url")
	f.StringVar(&bf.book.URL, "url", "", "Book page url")
}

// merge applies the flags explicitly set on cmd to book.
func (bf *bookFlags) merge(cmd *cobra.Command, book bookshelf.Book) bookshelf.Book {
	for name, field := range map[string]struct{ dst, src *string }{
		"title":     {&book.Title, &bf.book.Title},
		"subtitle":  {&book.Subtitle, &bf.book.Subtitle},
		"author":    {&book.Author, &bf.book.Author},
		"publisher": {&book.Publisher, &bf.book.Publisher},
		"year":      {&book.Year, &bf.book.Year},
		"language":  {&book.Language, &bf.book.Language},
		"pages":     {&book.Pages, &bf.book.Pages},
		"image":     {&book.Image, &bf.book.Image},
		"url":       {&book.URL, &bf.book.URL},
	} {
		if cmd.Flags().Changed(name) {
			*field.dst = *field.src
		}
	}
	return book
}

func newListCmd() *cobra.Command {
	var (
		author    string
		available bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the catalog, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := bookshelf.NewCatalogView(app.Store)
			view.SetAuthorFilter(author)
			books := view.Visible()
			if available {
				books = filterAvailable(books)
			}
			printBooks(books)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Only show books of this author")
	cmd.Flags().BoolVar(&available, "available", false, "Only show books which are not on loan")
	return cmd
}

func newAuthorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List the distinct authors of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range app.Store.Authors() {
				fmt.Println(a)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	bf := &bookFlags{}
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a book to the catalog",
		Example: `  bookshelf add --title "Dune" --author "Frank Herbert" --year 1965`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := app.Store.Add(cmd.Context(), bf.book)
			if err != nil {
				warn("book added but not saved: %v", err)
			}
			ok("added %s (%s)", book.Label(), book.ID)
			return nil
		},
	}
	bf.register(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	bf := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := bookshelf.NewCatalogView(app.Store)
			view.Select(args[0])
			current, found := view.Selected()
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}
			updated, err := view.Update(cmd.Context(), bf.merge(cmd, current))
			if err != nil {
				warn("book updated but not saved: %v", err)
			}
			if !updated {
				return fmt.Errorf("book %q not found", args[0])
			}
			ok("updated %s", current.ID)
			return nil
		},
	}
	bf.register(cmd)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a book from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := bookshelf.NewCatalogView(app.Store)
			view.Select(args[0])
			deleted, err := view.DeleteSelected(cmd.Context())
			if err != nil {
				warn("book deleted but not saved: %v", err)
			}
			if !deleted {
				warn("no book with id %q, nothing to delete", args[0])
				return nil
			}
			ok("deleted %s", args[0])
			return nil
		},
	}
}

func filterAvailable(books []bookshelf.Book) []bookshelf.Book {
	kept := []bookshelf.Book{}
	for _, b := range books {
		if b.IsAvailable() {
			kept = append(kept, b)
		}
	}
	return kept
}
