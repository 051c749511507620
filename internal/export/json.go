package export

import (
	"encoding/json"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// JSON renders the finalized state as an indented JSON document. The state's
// own field order and tags define the schema; nothing is added or reordered.
func JSON(s *minutes.State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
