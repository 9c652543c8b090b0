package client

import "strings"

// FormError is a validation message shown next to a form as is.
type FormError string

func (e FormError) Error() string { return string(e) }

const (
	ErrFieldsRequired   FormError = "All fields are required."
	ErrEmailInvalid     FormError = "Please enter a valid email."
	ErrPasswordShort    FormError = "Password must be at least 6 characters."
	ErrPasswordMismatch FormError = "Passwords do not match."
	ErrLoginFields      FormError = "Please fill in all fields."
	ErrLoginEmail       FormError = "Invalid email format."
)

const MinPasswordLength = 6

// Registration is the sign-up form, trimmed on construction.
type Registration struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

func looksLikeEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// ValidateRegistration checks the sign-up form in the order the form reports
// problems and returns the trimmed values.
func ValidateRegistration(in Registration) (Registration, error) {
	in = Registration{
		FullName:        strings.TrimSpace(in.FullName),
		Email:           strings.TrimSpace(in.Email),
		Password:        strings.TrimSpace(in.Password),
		ConfirmPassword: strings.TrimSpace(in.ConfirmPassword),
	}
	switch {
	case in.FullName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "":
		return in, ErrFieldsRequired
	case !looksLikeEmail(in.Email):
		return in, ErrEmailInvalid
	case len(in.Password) < MinPasswordLength:
		return in, ErrPasswordShort
	case in.Password != in.ConfirmPassword:
		return in, ErrPasswordMismatch
	}
	return in, nil
}

// ValidateLogin checks the sign-in form and returns the trimmed values.
func ValidateLogin(email, password string) (string, string, error) {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)
	if email == "" || password == "" {
		return email, password, ErrLoginFields
	}
	if !looksLikeEmail(email) {
		return email, password, ErrLoginEmail
	}
	return email, password, nil
}
