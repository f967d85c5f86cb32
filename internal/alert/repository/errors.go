package repository

import "errors"

var ErrNotFound = errors.New("alert record not found")
