// SPDX-License-Identifier: MPL-2.0

package bakefile

import (
	_ "embed"
	"fmt"
	"os"

	"bakery-cli/pkg/cueutil"
)

//go:embed bakefile_schema.cue
var bakefileSchema string

// Parse reads and parses a recipe from the given path.
func Parse(path string) (*Bakefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bakefile at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses recipe content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Bakefile, error) {
	result, err := cueutil.ParseAndDecodeString[Bakefile](
		bakefileSchema,
		data,
		"#Bakefile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	bf := result.Value
	bf.FilePath = path

	if errs := bf.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return bf, nil
}
