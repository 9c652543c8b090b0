package utils

import (
	"context"
	"net/http"

	"recipebox/globals"
)

// WithIdentity stores the resolved account id and email on ctx.
func WithIdentity(ctx context.Context, accountID, email string) context.Context {
	ctx = context.WithValue(ctx, globals.AccountIDKey, accountID)
	return context.WithValue(ctx, globals.EmailKey, email)
}

func GetUserIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(globals.AccountIDKey).(string)
	return id
}

func GetEmailFromRequest(r *http.Request) string {
	email, _ := r.Context().Value(globals.EmailKey).(string)
	return email
}
