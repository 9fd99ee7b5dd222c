package jwttoken

import (
	"showup/internal/platform/middleware"
)

// Adapter narrows Service's claims to what the auth middleware needs.
type Adapter struct {
	service *Service
}

func NewAdapter(service *Service) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) ValidateToken(tokenString string) (*middleware.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{PrincipalID: claims.PrincipalID}, nil
}
