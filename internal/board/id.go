package board

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const idPrefix = "board"

// newID returns a fresh board id such as board_01h455vb4pex5vsknk084sn02q.
func newID() string {
	return typeid.MustGenerate(idPrefix).String()
}

// parseID checks that id is a well-formed board id.
func parseID(id string) error {
	tid, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("board id %q: %w", id, err)
	}
	if got := tid.Prefix(); got != idPrefix {
		return fmt.Errorf("board id %q: prefix %q, want %q", id, got, idPrefix)
	}
	return nil
}
