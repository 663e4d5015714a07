package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims, oturum cookie'sindeki imzalı JWT'nin payload'ı.
//
// Kullanıcı hesabı yoktur; oturum sadece tarayıcı başına geçici ekran
// durumunu (liste/form) eşlemek için vardır. sid bir UUID'dir.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
