package report

import (
	"strconv"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
)

const absent = "-"

// BlockRow is a flat view of one memory block. Occupant, RequestedSize and
// InternalFragment are empty for free blocks.
type BlockRow struct {
	BlockID          int    `json:"blockId" yaml:"block_id"`
	Size             int    `json:"size" yaml:"size"`
	Status           string `json:"status" yaml:"status"`
	Occupant         string `json:"occupant,omitempty" yaml:"occupant,omitempty"`
	RequestedSize    *int   `json:"requestedSize,omitempty" yaml:"requested_size,omitempty"`
	InternalFragment *int   `json:"internalFragment,omitempty" yaml:"internal_fragment,omitempty"`
}

// BlockHeaders are the column titles for BlockRow.Cells.
var BlockHeaders = []string{
	"Block ID",
	"Block Size (KB)",
	"Status",
	"PID",
	"Requested (KB)",
	"Internal Frag (KB)",
}

// BlockRows projects the blocks of result in block id order.
func BlockRows(result allocator.StrategyResult) []BlockRow {
	rows := make([]BlockRow, 0, len(result.Blocks))
	for _, b := range result.Blocks {
		row := BlockRow{
			BlockID: b.ID,
			Size:    b.Size,
			Status:  string(b.Status),
		}
		if b.Allocated() {
			requested, fragment := b.RequestedSize, b.InternalFragment
			row.Occupant = b.OccupantID
			row.RequestedSize = &requested
			row.InternalFragment = &fragment
		}
		rows = append(rows, row)
	}
	return rows
}

// Cells returns the values for BlockHeaders, using "-" for absent fields.
func (r BlockRow) Cells() []string {
	occupant := r.Occupant
	if occupant == "" {
		occupant = absent
	}
	return []string{
		strconv.Itoa(r.BlockID),
		strconv.Itoa(r.Size),
		r.Status,
		occupant,
		optional(r.RequestedSize),
		optional(r.InternalFragment),
	}
}

// ProcessRow is a flat view of one process request.
type ProcessRow struct {
	ProcessID string `json:"processId" yaml:"process_id"`
	Size      int    `json:"size" yaml:"size"`
	Allocated bool   `json:"allocated" yaml:"allocated"`
	BlockID   *int   `json:"blockId,omitempty" yaml:"block_id,omitempty"`
}

// ProcessHeaders are the column titles for ProcessRow.Cells.
var ProcessHeaders = []string{"PID", "Size (KB)", "Allocated", "Block ID"}

// ProcessRows projects the processes of result in input order.
func ProcessRows(result allocator.StrategyResult) []ProcessRow {
	rows := make([]ProcessRow, 0, len(result.Processes))
	for _, p := range result.Processes {
		row := ProcessRow{ProcessID: p.ID, Size: p.Size, Allocated: p.Allocated}
		if p.Allocated {
			id := p.BlockID
			row.BlockID = &id
		}
		rows = append(rows, row)
	}
	return rows
}

// Cells returns the values for ProcessHeaders.
func (r ProcessRow) Cells() []string {
	allocated := "no"
	if r.Allocated {
		allocated = "yes"
	}
	return []string{r.ProcessID, strconv.Itoa(r.Size), allocated, optional(r.BlockID)}
}

func optional(v *int) string {
	if v == nil {
		return absent
	}
	return strconv.Itoa(*v)
}
