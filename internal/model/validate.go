package model

import (
	"strings"

	"github.com/elanurleylek/robosphere-sub000/internal/validation"
)

func validate(s any) error {
	return validation.Struct(s)
}

// trimPtr trims each non-nil string in place.
func trimPtr(ps ...*string) {
	for _, p := range ps {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}
