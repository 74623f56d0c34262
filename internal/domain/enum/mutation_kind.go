package enum

// MutationKind labels an offline queue entry. String-valued because the
// payload travels through JSON and the local store.
type MutationKind string

const (
	MutationKindSale            MutationKind = "sale"
	MutationKindInventoryUpdate MutationKind = "inventory-update"
)

// Valid reports whether k is a known mutation kind.
func (k MutationKind) Valid() bool {
	return k == MutationKindSale || k == MutationKindInventoryUpdate
}
