package core

// methodStasher keeps whatever an object's exclusive table held for one
// method name while a shim occupies the slot.
type methodStasher struct {
	table   *MethodTable
	name    string
	saved   MethodEntry
	present bool
	holding bool
}

func newMethodStasher(table *MethodTable, name string) *methodStasher {
	return &methodStasher{table: table, name: name}
}

// restore puts the stashed entry back, or clears the slot if it was empty.
func (s *methodStasher) restore() {
	if !s.holding {
		return
	}

	if s.present {
		s.table.Define(s.name, s.saved.Visibility, s.saved.Impl)
	} else {
		s.table.Remove(s.name)
	}

	s.saved = MethodEntry{}
	s.present = false
	s.holding = false
}

// stash records the current exclusive entry, if any.
func (s *methodStasher) stash() {
	s.saved, s.present = s.table.Lookup(s.name)
	s.holding = true
}

func (s *methodStasher) stashed() bool {
	return s.holding && s.present
}
