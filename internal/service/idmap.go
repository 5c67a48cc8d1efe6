package service

import "github.com/google/uuid"

// identityMap allocates fresh identifiers for imported entities. Each
// distinct old identifier gets one new identifier on first sight; later
// sightings return the same one. The map lives for a single import and is
// never shared across operations.
type identityMap struct {
	ids map[string]string
}

func newIdentityMap() *identityMap {
	return &identityMap{ids: make(map[string]string)}
}

// Register returns the new identifier for old, allocating on first sight.
func (m *identityMap) Register(old string) string {
	if id, ok := m.ids[old]; ok {
		return id
	}
	id := uuid.NewString()
	m.ids[old] = id
	return id
}

// Lookup resolves an already registered identifier. The second return is
// false for identifiers never seen by Register; callers drop such records
// instead of treating the miss as an error.
func (m *identityMap) Lookup(old string) (string, bool) {
	id, ok := m.ids[old]
	return id, ok
}
