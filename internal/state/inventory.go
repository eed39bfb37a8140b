package state

import (
	"github.com/1broseidon/wintrans/internal/platform"
)

// Record pairs a discovered window with its selection flag.
type Record struct {
	Window   platform.Window
	Selected bool
}

// Inventory is an immutable, insertion-ordered set of records keyed by window
// ID. Mutating helpers return a new Inventory. The nil Inventory is empty.
type Inventory struct {
	records []Record
	index   map[platform.WindowID]int
}

// NewInventory builds an inventory of unselected records in the given order.
// When an ID repeats, the first occurrence wins.
func NewInventory(windows []platform.Window) *Inventory {
	inv := &Inventory{
		records: make([]Record, 0, len(windows)),
		index:   make(map[platform.WindowID]int, len(windows)),
	}
	for _, w := range windows {
		if _, dup := inv.index[w.ID]; dup {
			continue
		}
		inv.index[w.ID] = len(inv.records)
		inv.records = append(inv.records, Record{Window: w})
	}
	return inv
}

// Merge builds the inventory that replaces prev after a discovery pass.
// Every discovered window becomes a record with its fresh label; windows also
// present in prev keep their Selected flag; windows only in prev are dropped.
func Merge(prev *Inventory, discovered []platform.Window) *Inventory {
	next := NewInventory(discovered)
	for i := range next.records {
		if old, ok := prev.Lookup(next.records[i].Window.ID); ok {
			next.records[i].Selected = old.Selected
		}
	}
	return next
}

// Len returns the number of records.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.records)
}

// At returns the record at position i.
func (inv *Inventory) At(i int) Record {
	return inv.records[i]
}

// Lookup returns the record for id.
func (inv *Inventory) Lookup(id platform.WindowID) (Record, bool) {
	if inv == nil {
		return Record{}, false
	}
	i, ok := inv.index[id]
	if !ok {
		return Record{}, false
	}
	return inv.records[i], true
}

// Records returns a copy of the records in order.
func (inv *Inventory) Records() []Record {
	if inv == nil {
		return nil
	}
	return append([]Record(nil), inv.records...)
}

// IDs returns every window ID in order.
func (inv *Inventory) IDs() []platform.WindowID {
	out := make([]platform.WindowID, 0, inv.Len())
	for i := 0; i < inv.Len(); i++ {
		out = append(out, inv.records[i].Window.ID)
	}
	return out
}

// SelectedIDs returns the IDs of selected records in order.
func (inv *Inventory) SelectedIDs() []platform.WindowID {
	var out []platform.WindowID
	for i := 0; i < inv.Len(); i++ {
		if inv.records[i].Selected {
			out = append(out, inv.records[i].Window.ID)
		}
	}
	return out
}

func (inv *Inventory) withSelected(i int, selected bool) *Inventory {
	next := inv.clone()
	next.records[i].Selected = selected
	return next
}

func (inv *Inventory) withAllSelected(selected bool) *Inventory {
	next := inv.clone()
	for i := range next.records {
		next.records[i].Selected = selected
	}
	return next
}

func (inv *Inventory) without(drop map[platform.WindowID]bool) *Inventory {
	next := &Inventory{
		records: make([]Record, 0, inv.Len()),
		index:   make(map[platform.WindowID]int, inv.Len()),
	}
	for i := 0; i < inv.Len(); i++ {
		rec := inv.records[i]
		if drop[rec.Window.ID] {
			continue
		}
		next.index[rec.Window.ID] = len(next.records)
		next.records = append(next.records, rec)
	}
	return next
}

func (inv *Inventory) clone() *Inventory {
	next := &Inventory{
		records: make([]Record, inv.Len()),
		index:   make(map[platform.WindowID]int, inv.Len()),
	}
	for i := 0; i < inv.Len(); i++ {
		next.records[i] = inv.records[i]
		next.index[inv.records[i].Window.ID] = i
	}
	return next
}
