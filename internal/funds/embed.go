package funds

import (
	"bytes"
	_ "embed"
	"fmt"
)

//go:embed superfunds.csv
var defaultCSV []byte

// DefaultTable parses the fee table shipped with the binary. It is
// used when no external fee table path is configured.
func DefaultTable() (*Table, error) {
	t, err := Parse(bytes.NewReader(defaultCSV))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded fee table: %w", err)
	}
	return t, nil
}
