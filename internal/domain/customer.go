package domain

import (
	"net/mail"
	"strings"
)

// CustomerInfo is an immutable name + email pair, validated at construction.
type CustomerInfo struct {
	name  string
	email string
}

func NewCustomerInfo(name, email string) (CustomerInfo, error) {
	if strings.TrimSpace(name) == "" {
		return CustomerInfo{}, ErrCustomerNameRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return CustomerInfo{}, ErrInvalidCustomerEmail
	}
	return CustomerInfo{name: name, email: email}, nil
}

func (c CustomerInfo) Name() string  { return c.name }
func (c CustomerInfo) Email() string { return c.email }
