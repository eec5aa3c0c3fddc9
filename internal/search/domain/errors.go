package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrFavoriteExists   = errors.New("favorite already exists")
	ErrInvalidListingID = errors.New("invalid listing id")
	ErrUnauthenticated  = errors.New("user is not authenticated")
)
