package directory

import (
	"errors"
	"strings"
)

// ErrUnclassifiable marks a record carrying neither an operating system nor
// any variant-indicating objectclass value.
var ErrUnclassifiable = errors.New("no variant-determining attributes present")

// Classify assigns a variant from the record's attributes, first match wins:
// a non-empty operatingsystem always means Computer, then objectclass values
// decide between Group, User and Computer. Callers with pre-partitioned
// input skip this entirely and force the class.
func Classify(rec *Record) (Class, error) {
	if os, ok := rec.FirstString("operatingsystem"); ok && strings.TrimSpace(os) != "" {
		return ClassComputer, nil
	}

	var group, user, computer bool
	for _, v := range rec.Strings("objectclass") {
		lower := strings.ToLower(v)
		switch {
		case strings.Contains(lower, "group"):
			group = true
		case strings.Contains(lower, "computer"):
			computer = true
		case strings.Contains(lower, "person") || strings.Contains(lower, "user"):
			user = true
		}
	}

	switch {
	case group:
		return ClassGroup, nil
	case user && !computer:
		return ClassUser, nil
	case computer:
		return ClassComputer, nil
	default:
		return ClassUnknown, ErrUnclassifiable
	}
}
