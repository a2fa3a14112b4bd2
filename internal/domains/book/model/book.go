package model

import (
	"errors"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Upper bounds of the books table columns (INTEGER and NUMERIC(10,2)).
const MaxPageCount = math.MaxInt32

var MaxPrice = decimal.RequireFromString("99999999.99")

// Book is one catalog record. ID is assigned by the store on insert and never changes.
type Book struct {
	ID             int64           `json:"id" db:"id"`
	Title          string          `json:"title" db:"title"`
	Author         string          `json:"author" db:"author"`
	Publisher      string          `json:"publisher" db:"publisher"`
	ISBN           string          `json:"isbn" db:"isbn"`
	Classification string          `json:"classification" db:"classification"`
	Category       string          `json:"category" db:"category"`
	PageCount      int             `json:"page_count" db:"page_count"`
	Price          decimal.Decimal `json:"price" db:"price"`
}

// BookFields is the mutable part of a Book. Create and update both take the full set;
// there is no partial update.
type BookFields struct {
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	Publisher      string          `json:"publisher"`
	ISBN           string          `json:"isbn"`
	Classification string          `json:"classification"`
	Category       string          `json:"category"`
	PageCount      int             `json:"page_count"`
	Price          decimal.Decimal `json:"price"`
}

// Validate checks field constraints and returns a *ValidationError on failure.
func (f BookFields) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.By(notBlank),
			validation.Length(1, 500),
		),
		validation.Field(&f.Author, validation.Length(0, 255)),
		validation.Field(&f.Publisher, validation.Length(0, 255)),
		validation.Field(&f.ISBN, validation.Length(0, 32)),
		validation.Field(&f.Classification, validation.Length(0, 255)),
		validation.Field(&f.Category, validation.Length(0, 255)),
		validation.Field(&f.PageCount, validation.Min(0), validation.Max(MaxPageCount)),
		validation.Field(&f.Price, validation.By(validPrice)),
	)
	return FromValidation(err)
}

// WithID builds the stored record for these fields.
func (f BookFields) WithID(id int64) Book {
	return Book{
		ID:             id,
		Title:          f.Title,
		Author:         f.Author,
		Publisher:      f.Publisher,
		ISBN:           f.ISBN,
		Classification: f.Classification,
		Category:       f.Category,
		PageCount:      f.PageCount,
		Price:          f.Price,
	}
}

// Fields returns the mutable part of b.
func (b Book) Fields() BookFields {
	return BookFields{
		Title:          b.Title,
		Author:         b.Author,
		Publisher:      b.Publisher,
		ISBN:           b.ISBN,
		Classification: b.Classification,
		Category:       b.Category,
		PageCount:      b.PageCount,
		Price:          b.Price,
	}
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// validPrice checks the price as the store keeps it, rounded to cents.
func validPrice(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal number")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	if d.Round(2).GreaterThan(MaxPrice) {
		return errors.New("must be no greater than " + MaxPrice.StringFixed(2))
	}
	return nil
}
