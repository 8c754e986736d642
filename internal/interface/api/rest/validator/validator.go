package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxLabelLen = 255

// ValidateUpload checks the non-file form fields of an upload. It returns nil
// when both are acceptable.
func ValidateUpload(email, label string) map[string]string {
	errs := make(map[string]string)

	// Normalize
	email = strings.TrimSpace(email)
	label = strings.TrimSpace(label)

	// email (required + format)
	if email == "" {
		errs["email"] = "email is required"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = "invalid email format"
	}

	// label (required + length)
	if label == "" {
		errs["label"] = "label is required"
	} else if utf8.RuneCountInString(label) > maxLabelLen {
		errs["label"] = "label must be at most 255 characters"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Detail flattens validation errors into one message with a stable field
// order.
func Detail(errs map[string]string) string {
	var parts []string
	for _, k := range []string{"email", "label"} {
		if msg, ok := errs[k]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}
