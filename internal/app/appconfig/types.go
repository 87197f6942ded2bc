package appconfig

import (
	"fmt"
	"strings"

	"zmbs.dev/eggseed/internal/constant"
)

// DatasetSource is normalized to either "embedded" or "file:<path>".
type DatasetSource string

func (s *DatasetSource) Decode(value string) error {
	value = strings.TrimSpace(value)
	switch {
	case value == "" || value == constant.DatasetSourceEmbedded:
		*s = DatasetSource(constant.DatasetSourceEmbedded)
	case strings.HasPrefix(value, constant.DatasetSourceFilePrefix):
		path := strings.TrimPrefix(value, constant.DatasetSourceFilePrefix)
		if path == "" {
			return fmt.Errorf("invalid dataset source: expect a path after %q, but got: %s", constant.DatasetSourceFilePrefix, value)
		}
		*s = DatasetSource(value)
	default:
		*s = DatasetSource(constant.DatasetSourceFilePrefix + value)
	}
	return nil
}

func (s DatasetSource) String() string {
	return string(s)
}
