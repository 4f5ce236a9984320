package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// layerNameRegex matches valid vector layer names: a letter followed by
// letters, digits or underscores. Layer names become file basenames, table
// names and collection names depending on the driver, so the rules are
// intentionally conservative.
var layerNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateLayerName validates a vector layer name for safety across drivers.
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeDriver, "layer name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeDriver, "layer name too long (max 64 characters)")
	}

	if !layerNameRegex.MatchString(name) {
		return New(ErrCodeDriver, "invalid layer name: %q", name)
	}

	return nil
}

// ValidateDatasetPath validates a dataset path or connection string.
// It rejects empty paths, control characters and null bytes; everything
// else is left to the driver, since valid paths range from directories to
// mongodb:// URIs.
func ValidateDatasetPath(path string) error {
	if path == "" {
		return New(ErrCodeDriver, "dataset path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeDriver, "dataset path contains invalid characters")
		}
	}

	return nil
}

// ValidateFieldName validates a property field name for a write schema.
// Field names become column names under the sqlite driver and document keys
// under the mongo driver.
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeSchema, "field name cannot be empty")
	}

	if strings.ContainsAny(name, " \t\n\"'`$.") {
		return New(ErrCodeSchema, "field name contains invalid characters: %q", name)
	}

	if !layerNameRegex.MatchString(name) {
		return New(ErrCodeSchema, "invalid field name: %q", name)
	}

	return nil
}
