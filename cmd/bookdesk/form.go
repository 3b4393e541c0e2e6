package main

import (
	"flag"

	"bookdesk/internal/strapi"
)

// registerFormFlags binds the export form fields to command line flags.
func registerFormFlags(f *strapi.Form) {
	flag.StringVar(&f.Title, "title", "", "Export: title")
	flag.StringVar(&f.Author, "author", "", "Export: author")
	flag.StringVar(&f.Condition, "condition", "", "Export: condition")
	flag.StringVar(&f.BookType, "type", "", "Export: book type (For Sale, For Swap)")
	flag.StringVar(&f.Status, "status", "", "Export: status")
	flag.StringVar(&f.Description, "description", "", "Export: description")
	flag.StringVar(&f.OwnerID, "owner", "", "Export: owner user id (required)")
	flag.StringVar(&f.Price, "price", "", "Export: price (For Sale only)")
	flag.StringVar(&f.Subject, "subject-field", "", "Export: primary subject")
	flag.StringVar(&f.Course, "course", "", "Export: course")
	flag.StringVar(&f.Exchange, "exchange", "", "Export: exchange details (For Swap only)")
	flag.StringVar(&f.DisplayTitle, "display-title", "", "Export: display title")
	flag.BoolVar(&f.Display, "display", false, "Export: display flag")
	flag.BoolVar(&f.Featured, "featured", false, "Export: featured flag")
	flag.BoolVar(&f.BookOfWeek, "book-of-week", false, "Export: book of the week flag")
	flag.BoolVar(&f.BookOfYear, "book-of-year", false, "Export: book of the year flag")
	flag.IntVar(&f.Rating, "rating", 0, "Export: rating 0-5")
	flag.StringVar(&f.CategoryIDs, "categories", "", "Export: comma separated category ids")
	flag.StringVar(&f.CoverID, "cover", "", "Export: cover media id")
}

// setFlags reports which flags were given on the command line, so a prefilled
// form field is only overridden when the operator actually edited it.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func mergeForm(base, edited strapi.Form, set map[string]bool) strapi.Form {
	if set["title"] {
		base.Title = edited.Title
	}
	if set["author"] {
		base.Author = edited.Author
	}
	if set["condition"] {
		base.Condition = edited.Condition
	}
	if set["type"] {
		base.BookType = edited.BookType
	}
	if set["status"] {
		base.Status = edited.Status
	}
	if set["description"] {
		base.Description = edited.Description
	}
	if set["owner"] {
		base.OwnerID = edited.OwnerID
	}
	if set["price"] {
		base.Price = edited.Price
	}
	if set["subject-field"] {
		base.Subject = edited.Subject
	}
	if set["course"] {
		base.Course = edited.Course
	}
	if set["exchange"] {
		base.Exchange = edited.Exchange
	}
	if set["display-title"] {
		base.DisplayTitle = edited.DisplayTitle
	}
	if set["display"] {
		base.Display = edited.Display
	}
	if set["featured"] {
		base.Featured = edited.Featured
	}
	if set["book-of-week"] {
		base.BookOfWeek = edited.BookOfWeek
	}
	if set["book-of-year"] {
		base.BookOfYear = edited.BookOfYear
	}
	if set["rating"] {
		base.Rating = edited.Rating
	}
	if set["categories"] {
		base.CategoryIDs = edited.CategoryIDs
	}
	if set["cover"] {
		base.CoverID = edited.CoverID
	}
	return base
}
