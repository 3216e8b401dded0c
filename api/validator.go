package main

import (
	"regexp"
	"slices"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

const minPasswordLength = 6

type validator struct {
	errors map[string]string
}

func newValidator() *validator {
	return &validator{
		errors: make(map[string]string),
	}
}

func (v *validator) toError() error {
	return apperr.Validation(v.errors)
}

func (v *validator) hasErrors() bool {
	return len(v.errors) != 0
}

func (v *validator) checkCond(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

func (v *validator) checkEmail(email string) {
	v.checkCond(email != "", "email", "must be provided")
	v.checkCond(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

// checkPassword has no upper bound: input past 72 bytes is truncated by the
// hasher instead of rejected.
func (v *validator) checkPassword(password string) {
	v.checkCond(password != "", "password", "must be provided")
	v.checkCond(len(password) >= minPasswordLength, "password", "must be at least 6 characters long")
}

func (v *validator) checkRole(role string) {
	v.checkCond(role == "" || slices.Contains([]data.Role{data.RoleUser, data.RoleAdmin}, data.Role(role)), "role", "must be one of user, admin")
}

func (v *validator) checkProvided(value *string, key string) {
	v.checkCond(value != nil, key, "must be provided")
}
