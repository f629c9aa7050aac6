// Package veiltest provides test utilities for veil.
package veiltest

import (
	"github.com/veilio/veil"
)

// RootKey returns a valid 32-byte root key for testing.
func RootKey() []byte {
	return []byte("32-byte-root-key-for-veil-tests!")
}

// Protector returns a Protector for the given purpose, built on RootKey.
func Protector(purpose string) veil.Protector {
	p, err := veil.NewProtector(RootKey(), purpose)
	if err != nil {
		panic(err)
	}
	return p
}

// PathProtector returns a Protector scoped to the default path purpose.
func PathProtector() veil.Protector {
	return Protector(veil.DefaultPathPurpose)
}

// QueryProtector returns a Protector scoped to the default query purpose.
func QueryProtector() veil.Protector {
	return Protector(veil.DefaultQueryPurpose)
}

// Seal encrypts plaintext with p, panicking on failure. Test fixtures only.
func Seal(p veil.Protector, plaintext string) string {
	token, err := p.Encrypt(plaintext)
	if err != nil {
		panic(err)
	}
	return token
}

// Person is a test type demonstrating encryption markers.
type Person struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName" veil:"encrypted"`
	SSN       string `json:"ssn" veil:"encrypted,nowarn"`
}

// Order is a test type with markers nested inside composite members.
type Order struct {
	ID       string   `json:"id" veil:"encrypted"`
	Customer Customer `json:"customer"`
}

// Customer is the middle level of the Order graph.
type Customer struct {
	Name    string   `json:"name"`
	Account *Account `json:"account"`
}

// Account carries an encrypted leaf three levels deep in Order.
type Account struct {
	Number string `json:"accountNumber" veil:"encrypted"`
}
