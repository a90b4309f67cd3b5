// Package region holds the distributor regions a session can be scoped to.
package region

import (
	"errors"
	"fmt"
	"strings"
)

// Code is an upper-case region code such as "PA".
type Code string

const (
	MA Code = "MA"
	PA Code = "PA"
	PI Code = "PI"
	AL Code = "AL"
)

var ErrInvalid = errors.New("invalid region")

var all = []Code{MA, PA, PI, AL}

var names = map[Code]string{
	MA: "Maranhão",
	PA: "Pará",
	PI: "Piauí",
	AL: "Alagoas",
}

// Normalize is the single place region input is case-normalised.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Parse normalises s and checks it against the supported regions.
func Parse(s string) (Code, error) {
	c := Code(Normalize(s))
	if _, ok := names[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return c, nil
}

// All returns the supported regions in menu order.
func All() []Code {
	out := make([]Code, len(all))
	copy(out, all)
	return out
}

func (c Code) Name() string {
	return names[c]
}

func (c Code) Valid() bool {
	_, ok := names[c]
	return ok
}

func (c Code) String() string {
	return string(c)
}
