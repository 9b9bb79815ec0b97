package table

import (
	"os"

	"gopkg.in/yaml.v3"
)

// schema is the table's durable record of "which column<N>.index
// files exist and are authoritative" across reopen (SPEC_FULL.md §B).
// The core tree format has no concept of a table at all; this is
// purely a table-layer concern.
type schema struct {
	Columns  int    `yaml:"columns"`
	Indexed  []bool `yaml:"indexed"`
	RowCount uint64 `yaml:"row_count"`
}

func loadSchema(path string) (*schema, bool, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s schema
	if err := yaml.Unmarshal(buf, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (s *schema) save(path string) error {
	buf, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
