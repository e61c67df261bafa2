package datastores

import (
	"context"
	"slices"
	"sync"
)

// ContactsInmem implements [ContactsStore].
type ContactsInmem struct {
	mu       sync.Mutex
	lastID   ContactID
	index    map[ContactID]int
	contacts []Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem(cs ...*Contact) *ContactsInmem {
	s := &ContactsInmem{index: make(map[ContactID]int, len(cs))}
	for _, c := range cs {
		_, _ = s.Create(context.Background(), c)
	}
	return s
}

func (s *ContactsInmem) Create(_ context.Context, c *Contact) (ContactID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	c.ID = s.lastID
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, *c)
	return c.ID, nil
}

func (s *ContactsInmem) List(_ context.Context) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := make([]*Contact, 0, len(s.contacts))
	for i := range s.contacts {
		c := s.contacts[i]
		contacts = append(contacts, &c)
	}
	return contacts, nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	c := s.contacts[index]
	return &c, nil
}

func (s *ContactsInmem) Update(_ context.Context, id ContactID, c *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return ErrObjectNotFound
	}
	c.ID = id
	s.contacts[index] = *c
	return nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return ErrObjectNotFound
	}
	delete(s.index, id)
	s.contacts = slices.Delete(s.contacts, index, index+1)
	for i := index; i < len(s.contacts); i++ {
		s.index[s.contacts[i].ID] = i
	}
	return nil
}

func (s *ContactsInmem) FindByNameEmail(
	_ context.Context,
	firstname, lastname string,
	email *string,
	exceptID ContactID,
) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		c := s.contacts[i]
		if c.ID != exceptID && c.Firstname == firstname && c.Lastname == lastname && sameEmail(c.Email, email) {
			return &c, nil
		}
	}
	return nil, ErrObjectNotFound
}
