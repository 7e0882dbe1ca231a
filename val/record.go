package val

import (
	"strings"

	"github.com/google/uuid"
)

// RecordID references a record by table and identifier. For path purposes
// it is opaque: the navigator never dereferences it unless the caller
// supplies a fetch capability in Options.
type RecordID struct {
	Table string
	ID    string
}

func (r *RecordID) String() string {
	return r.Table + ":" + r.ID
}

// FromRecord wraps a table and identifier as a record link.
func FromRecord(table, id string) *Value {
	return &Value{Type: RecordIDType, Record: &RecordID{Table: table, ID: id}}
}

// NewRecord mints a record link with a fresh random identifier.
func NewRecord(table string) *Value {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return FromRecord(table, id)
}

// ParseRecord splits "table:id" notation. It is used only where record
// literals are expected, never to reinterpret object keys: keys are
// always plain strings regardless of their lexical shape.
func ParseRecord(s string) (*Value, bool) {
	table, id, ok := strings.Cut(s, ":")
	if !ok || table == "" || id == "" {
		return nil, false
	}
	return FromRecord(table, id), true
}
