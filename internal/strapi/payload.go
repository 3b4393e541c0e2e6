// Package strapi shapes an edited review form into the JSON payload the
// content backend imports.
package strapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Book types the form accepts. Price and exchange handling hang off these.
const (
	TypeForSale = "For Sale"
	TypeForSwap = "For Swap"
)

// Form is the operator-edited field set collected before export.
type Form struct {
	Title        string
	Author       string
	Condition    string
	BookType     string
	Status       string
	Description  string
	OwnerID      string
	Price        string
	Subject      string
	Course       string
	Exchange     string
	DisplayTitle string
	Display      bool
	Featured     bool
	BookOfWeek   bool
	BookOfYear   bool
	Rating       int
	CategoryIDs  string
	CoverID      string
}

// ValidationError reports a form field the export cannot proceed with.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Payload is the flat field map nested under "data" in the export envelope.
type Payload map[string]interface{}

// Export wraps a payload in the envelope the backend expects.
type Export struct {
	Data Payload `json:"data"`
}

// BuildPayload validates and converts the form into a payload. A validation
// failure aborts the whole export: no partial payload is ever produced.
func BuildPayload(f Form) (Payload, error) {
	owner := strings.TrimSpace(f.OwnerID)
	if owner == "" {
		return nil, &ValidationError{Field: "users_permissions_user", Message: "owner id is required"}
	}
	ownerID, err := strconv.Atoi(owner)
	if err != nil {
		return nil, &ValidationError{Field: "users_permissions_user", Message: fmt.Sprintf("invalid number %q", owner)}
	}

	p := Payload{
		"title":       f.Title,
		"author":      f.Author,
		"condition":   f.Condition,
		"bookType":    f.BookType,
		"status":      f.Status,
		"description": f.Description,
		"featured":    f.Featured,
		"bookOfWeek":  f.BookOfWeek,
		"bookOfYear":  f.BookOfYear,
		// The backend field really is capitalized.
		"Display":                f.Display,
		"rating":                 f.Rating,
		"users_permissions_user": ownerID,
	}

	// Price only exists for sale listings, even if the field was filled in.
	if f.BookType == TypeForSale {
		price := strings.TrimSpace(f.Price)
		if price == "" {
			p["price"] = 0.0
		} else {
			v, err := strconv.ParseFloat(price, 64)
			if err != nil {
				return nil, &ValidationError{Field: "price", Message: fmt.Sprintf("invalid number %q", price)}
			}
			p["price"] = v
		}
	}

	categories, err := parseIDList(f.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if categories != nil {
		p["categories"] = categories
	}

	if cover := strings.TrimSpace(f.CoverID); cover != "" {
		id, err := strconv.Atoi(cover)
		if err != nil {
			return nil, &ValidationError{Field: "cover", Message: fmt.Sprintf("invalid number %q", cover)}
		}
		p["cover"] = id
	}

	if f.Subject != "" {
		p["subject"] = f.Subject
	}
	if f.Course != "" {
		p["course"] = f.Course
	}
	if f.BookType == TypeForSwap && f.Exchange != "" {
		p["exchange"] = f.Exchange
	}
	if f.DisplayTitle != "" {
		p["displayTitle"] = f.DisplayTitle
	}

	return p, nil
}

func parseIDList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &ValidationError{Field: "categories", Message: fmt.Sprintf("invalid number %q", tok)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Encode renders the envelope. Map keys marshal sorted, so unchanged form
// state always yields byte-identical output.
func (p Payload) Encode() ([]byte, error) {
	return json.MarshalIndent(Export{Data: p}, "", "  ")
}
