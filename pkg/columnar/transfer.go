package columnar

import (
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Region is the memory behind one column. Transfer moves ownership to a
// new Region; the old one and the source column become unreadable.
type Region struct {
	Field string
	Kind  typedarray.Kind

	data  any
	size  int
	state *regionState
}

func newRegion(field string, kind typedarray.Kind, data any, state *regionState) *Region {
	n, _ := typedarray.Len(data)
	return &Region{Field: field, Kind: kind, data: data, size: n * kind.Size(), state: state}
}

// CollectTransferableRegions returns one Region per column in field order.
// Nothing is copied and cols is not modified. A nil cols has no regions.
func CollectTransferableRegions(cols *Columns) []*Region {
	if cols == nil {
		return nil
	}
	regions := make([]*Region, 0, len(cols.names))
	for _, name := range cols.names {
		col := cols.columns[name]
		regions = append(regions, newRegion(name, col.kind, col.data, col.state))
	}
	return regions
}

// ByteLen returns the size of the region in bytes.
func (r *Region) ByteLen() int { return r.size }

// Transferred reports whether this region has given up its memory.
func (r *Region) Transferred() bool { return r.state.transferred.Load() }

// Bytes returns a view of the region's memory.
func (r *Region) Bytes() ([]byte, error) {
	if r.Transferred() {
		return nil, transferredError(r.Field)
	}
	return typedarray.Bytes(r.data)
}

// Sequence returns the typed sequence behind the region.
func (r *Region) Sequence() (any, error) {
	if r.Transferred() {
		return nil, transferredError(r.Field)
	}
	return r.data, nil
}

// Transfer hands the memory to a new Region. Only one transfer of a given
// region succeeds; later calls fail with ErrorTypeTransferred.
func (r *Region) Transfer() (*Region, error) {
	if !r.state.transferred.CompareAndSwap(false, true) {
		err := transferredError(r.Field)
		metrics.ObserveError(metrics.OpTransfer, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpTransfer, r.Kind.String(), r.size)
	return newRegion(r.Field, r.Kind, r.data, &regionState{}), nil
}

// TransferAll transfers every region of cols and returns the new owners in
// field order. It stops at the first column that was already transferred.
func TransferAll(cols *Columns) ([]*Region, error) {
	regions := CollectTransferableRegions(cols)
	out := make([]*Region, 0, len(regions))
	for _, r := range regions {
		moved, err := r.Transfer()
		if err != nil {
			return out, errors.Wrap(err, errors.ErrorTypeTransferred, "transfer columns")
		}
		out = append(out, moved)
	}
	return out, nil
}
