package qonos

import "github.com/frielp/qonos/id"

// ID is the primary identifier type for all qonos entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
