package datastores

import (
	"context"
	"errors"
)

type (
	ContactID = int64
	Contact   struct {
		ID        ContactID `gorm:"column:id;primaryKey;autoIncrement"`
		Firstname string    `gorm:"column:first_name;not null;size:50"`
		Lastname  string    `gorm:"column:last_name;not null;size:50"`
		Company   *string   `gorm:"column:company;size:100"`
		Telephone *string   `gorm:"column:telephone;size:20"`
		Email     *string   `gorm:"column:email"`
		Address   *string   `gorm:"column:address;size:200"`
		Notes     *string   `gorm:"column:notes;size:500"`
	}
)

func (Contact) TableName() string { return "contacts" }

type ContactsStore interface {
	Create(context.Context, *Contact) (ContactID, error)
	List(context.Context) ([]*Contact, error)
	Get(context.Context, ContactID) (*Contact, error)
	// Update replaces every field but the ID of the stored contact.
	Update(context.Context, ContactID, *Contact) error
	Delete(context.Context, ContactID) error
	// FindByNameEmail returns a contact other than exceptID with the same names and email.
	// A nil email matches contacts without email.
	FindByNameEmail(ctx context.Context, firstname, lastname string, email *string, exceptID ContactID) (*Contact, error)
}

var ErrObjectNotFound = errors.New("store: object not found")

func sameEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
