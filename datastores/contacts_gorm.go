package datastores

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactsGorm implements [ContactsStore] on top of a relational database.
// Every call runs in its own session bound to the caller's context.
type ContactsGorm struct {
	db *gorm.DB
}

var _ ContactsStore = (*ContactsGorm)(nil)

func NewContactsGorm(db *gorm.DB) *ContactsGorm { return &ContactsGorm{db: db} }

func (s *ContactsGorm) Create(ctx context.Context, c *Contact) (ContactID, error) {
	c.ID = 0
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (s *ContactsGorm) List(ctx context.Context) ([]*Contact, error) {
	contacts := []*Contact{}
	err := s.db.WithContext(ctx).Order("id").Find(&contacts).Error
	return contacts, err
}

func (s *ContactsGorm) Get(ctx context.Context, id ContactID) (*Contact, error) {
	var c Contact
	err := s.db.WithContext(ctx).Take(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContactsGorm) Update(ctx context.Context, id ContactID, c *Contact) error {
	res := s.db.WithContext(ctx).Model(&Contact{}).Where("id = ?", id).Updates(map[string]any{
		"first_name": c.Firstname,
		"last_name":  c.Lastname,
		"company":    c.Company,
		"telephone":  c.Telephone,
		"email":      c.Email,
		"address":    c.Address,
		"notes":      c.Notes,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrObjectNotFound
	}
	c.ID = id
	return nil
}

func (s *ContactsGorm) Delete(ctx context.Context, id ContactID) error {
	res := s.db.WithContext(ctx).Delete(&Contact{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrObjectNotFound
	}
	return nil
}

func (s *ContactsGorm) FindByNameEmail(
	ctx context.Context,
	firstname, lastname string,
	email *string,
	exceptID ContactID,
) (*Contact, error) {
	var emailValue any // nil renders as IS NULL
	if email != nil {
		emailValue = *email
	}

	var c Contact
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "first_name"}, Value: firstname}).
		Where(clause.Eq{Column: clause.Column{Name: "last_name"}, Value: lastname}).
		Where(clause.Eq{Column: clause.Column{Name: "email"}, Value: emailValue}).
		Where(clause.Neq{Column: clause.Column{Name: "id"}, Value: exceptID}).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
