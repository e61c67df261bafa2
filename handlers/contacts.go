package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-contacts/datastores"
	"github.com/oaiiae/huma-contacts/validators"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID ds.ContactID `json:"id" readOnly:"true" example:"12"`

	FirstName string  `json:"first_name" example:"John"`
	LastName  string  `json:"last_name"  example:"Doe"`
	Company   *string `json:"company"    example:"Acme Inc"         nullable:"true"`
	Telephone *string `json:"telephone"  example:"12345678900"      nullable:"true"`
	Email     *string `json:"email"      example:"john@example.com" nullable:"true"`
	Address   *string `json:"address"    example:"123 Main St"      nullable:"true"`
	Notes     *string `json:"notes"      example:"Important client" nullable:"true"`
}

func newContactModel(c *ds.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID,
		FirstName: c.Firstname,
		LastName:  c.Lastname,
		Company:   c.Company,
		Telephone: c.Telephone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
	}
}

// ContactInput is the request body of create and update.
// Field rules are applied by [validators.ValidateContact] rather than by the schema
// so that every invalid field is reported in a single response, missing names included.
// Unknown members are ignored.
type ContactInput struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	ID *ds.ContactID `json:"id,omitempty" nullable:"true" doc:"Ignored, contacts are addressed by path"`

	FirstName string  `json:"first_name"          example:"John"              doc:"2 to 50 Latin or Cyrillic letters, spaces or hyphens" required:"false"`
	LastName  string  `json:"last_name"           example:"Doe"               doc:"2 to 50 Latin or Cyrillic letters, spaces or hyphens" required:"false"`
	Company   *string `json:"company,omitempty"   example:"Acme Inc"          doc:"At most 100 characters"                  nullable:"true"`
	Telephone *string `json:"telephone,omitempty" example:"+1 (234) 567-8900" doc:"1 to 16 digits once formatting is removed" nullable:"true"`
	Email     *string `json:"email,omitempty"     example:"john@example.com"  doc:"Empty or NULL means no email"           nullable:"true"`
	Address   *string `json:"address,omitempty"   example:"123 Main St"       doc:"At most 200 characters"                  nullable:"true"`
	Notes     *string `json:"notes,omitempty"     example:"Important client"  doc:"At most 500 characters"                  nullable:"true"`
}

// contact validates the input and returns the contact to store.
func (in *ContactInput) contact() (*ds.Contact, error) {
	v, err := validators.ValidateContact(validators.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Telephone: in.Telephone,
		Email:     in.Email,
		Address:   in.Address,
		Notes:     in.Notes,
	})

	var fieldErrs validators.FieldErrors
	switch {
	case err == nil:
		return &ds.Contact{
			Firstname: v.FirstName,
			Lastname:  v.LastName,
			Company:   v.Company,
			Telephone: v.Telephone,
			Email:     v.Email,
			Address:   v.Address,
			Notes:     v.Notes,
		}, nil

	case errors.As(err, &fieldErrs):
		details := make([]error, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, &huma.ErrorDetail{Location: "body." + fe.Field, Message: fe.Message})
		}
		return nil, NewError(http.StatusUnprocessableEntity, validationDetail, details...)

	default:
		return nil, err
	}
}

// storeError maps a datastore error to the response status.
func storeError(err error) error {
	if errors.Is(err, ds.ErrObjectNotFound) {
		return statusError(http.StatusNotFound, "Contact not found", err)
	}
	return statusError(http.StatusInternalServerError, "Internal server error", err)
}

// checkDuplicate fails with conflictDetail when another contact than id has the same names and email.
func (h *Contacts) checkDuplicate(ctx context.Context, c *ds.Contact, id ds.ContactID, conflictDetail string) error {
	dup, err := h.Store.FindByNameEmail(ctx, c.Firstname, c.Lastname, c.Email, id)
	switch {
	case err == nil:
		return statusError(http.StatusBadRequest, conflictDetail, fmt.Errorf("duplicate of contact %d", dup.ID))
	case errors.Is(err, ds.ErrObjectNotFound):
		return nil
	default:
		return storeError(err)
	}
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/all-contacts",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opID("list-contacts", "List all contacts"),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	body := make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, newContactModel(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/get-contact/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opID("get-contact", "Get a contact"),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return &ContactsGetOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/create-contact",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opID("create-contact", "Create a contact"),
		opStatus(http.StatusCreated),
		opErrors(http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

type ContactsCreateOutput struct {
	Body ContactModel
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body ContactInput
}) (*ContactsCreateOutput, error) {
	contact, err := input.Body.contact()
	if err != nil {
		return nil, err
	}

	err = h.checkDuplicate(ctx, contact, 0, "Contact with same name and email already exists")
	if err != nil {
		return nil, err
	}

	_, err = h.Store.Create(ctx, contact)
	if err != nil {
		return nil, storeError(err)
	}

	return &ContactsCreateOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterUpdate(api huma.API) { // called by [huma.AutoRegister]
	huma.Patch(api, "/update-contact/{id}",
		handlerWithErrorHandler(h.update, h.ErrorHandler),
		opID("update-contact", "Replace the fields of a contact"),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

type ContactsUpdateOutput struct {
	Body ContactModel
}

func (h *Contacts) update(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" doc:"ID of the contact to update"`
	Body ContactInput
}) (*ContactsUpdateOutput, error) {
	_, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}

	contact, err := input.Body.contact()
	if err != nil {
		return nil, err
	}

	err = h.checkDuplicate(ctx, contact, input.ID, "Another contact with same name and email already exists")
	if err != nil {
		return nil, err
	}

	err = h.Store.Update(ctx, input.ID, contact)
	if err != nil {
		return nil, storeError(err)
	}
	contact.ID = input.ID

	return &ContactsUpdateOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/delete-contact/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opID("delete-contact", "Delete a contact"),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsDeleteOutput struct {
	Body struct {
		Message string `json:"message" example:"Contact deleted"`
	}
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to delete"`
}) (*ContactsDeleteOutput, error) {
	_, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}

	err = h.Store.Delete(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}

	resp := &ContactsDeleteOutput{}
	resp.Body.Message = "Contact deleted"
	return resp, nil
}
