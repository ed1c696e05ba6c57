package roster

import "github.com/tidwall/btree"

// nameEntry maps a player name to the rows that carry it. Names are not
// guaranteed unique across a season export.
type nameEntry struct {
	name string
	rows []int
}

func nameEntryLess(a, b nameEntry) bool {
	return a.name < b.name
}

// NameIndex is an ordered index from player name to row positions.
// It is built once and only read afterwards.
type NameIndex struct {
	tree *btree.BTreeG[nameEntry]
}

// NewNameIndex indexes players by Name, keeping rows in input order.
func NewNameIndex(players []Player) *NameIndex {
	tree := btree.NewBTreeG[nameEntry](nameEntryLess)
	for i, p := range players {
		entry, found := tree.Get(nameEntry{name: p.Name})
		if !found {
			entry = nameEntry{name: p.Name}
		}
		entry.rows = append(entry.rows, i)
		tree.Set(entry)
	}
	return &NameIndex{tree: tree}
}

// Names returns the distinct player names in ascending order.
func (idx *NameIndex) Names() []string {
	names := make([]string, 0, idx.tree.Len())
	idx.tree.Scan(func(e nameEntry) bool {
		names = append(names, e.name)
		return true
	})
	return names
}

// Rows returns the row positions for name, in input order, or nil.
func (idx *NameIndex) Rows(name string) []int {
	entry, found := idx.tree.Get(nameEntry{name: name})
	if !found {
		return nil
	}
	return entry.rows
}

// Len returns the number of distinct names.
func (idx *NameIndex) Len() int { return idx.tree.Len() }
