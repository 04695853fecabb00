package sink

import (
	"encoding/json"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// RenderJSON encodes the scene with indentation.
func RenderJSON(s Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return data, nil
}
