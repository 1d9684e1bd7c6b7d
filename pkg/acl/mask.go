package acl

//go:generate go run github.com/dmarkham/enumer -type Mask -trimprefix Mask -transform lower -yaml -output mask.gen.go

// Mask is a single permission carried by a permission group. Groups bundle
// several masks per class; the stored permission_mask column holds Bit().
type Mask int

const (
	MaskRead Mask = iota
	MaskWrite
	MaskCreate
	MaskDelete
	MaskAdmin
	MaskManagement
	MaskExport
	MaskExecute
	MaskLink
	MaskImport
	MaskAttach
)

// Bit returns the wire form of the mask, a single bit in the
// acl_group_permission.permission_mask column.
func (i Mask) Bit() int {
	return 1 << int(i)
}

// MaskFromBit resolves a stored permission_mask bit back to its Mask.
func MaskFromBit(bit int) (Mask, bool) {
	for _, m := range MaskValues() {
		if m.Bit() == bit {
			return m, true
		}
	}
	return 0, false
}
