package census

import "errors"

var (
	ErrRecordNotFound      = errors.New("census record not found")
	ErrDuplicateNationalID = errors.New("national id already registered")
	ErrDuplicateCode       = errors.New("census code already taken")
)
