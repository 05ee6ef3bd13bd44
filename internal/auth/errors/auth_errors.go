package autherrors

import (
	"net/http"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
)

var (
	ErrInvalidCredentials     = apperror.New(apperror.CodeUnauthorized, "invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken           = apperror.New("INVALID_TOKEN", "invalid token", http.StatusUnauthorized)
	ErrTokenExpired           = apperror.New("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized)
	ErrForbidden              = apperror.New(apperror.CodeForbidden, "you do not have permission to perform this action", http.StatusForbidden)
	ErrUserNotFound           = apperror.New(apperror.CodeNotFound, "user not found", http.StatusNotFound)
	ErrEmailAlreadyRegistered = apperror.New(apperror.CodeConflict, "email already registered", http.StatusConflict)
)
