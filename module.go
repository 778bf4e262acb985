// Completion: 100% - Module model complete
package main

// Module holds an ordered FunctionList plus the region/link metadata an
// external collaborator (the ELF loader) attaches. Function order is
// observable: it determines layout, and therefore the PC-relative
// displacements C6 and C7 both chase.
type Module struct {
	Name      string
	Functions []*Function

	// Path to the backing file this module was lifted from - the main
	// executable for the first Module, a shared library for the rest.
	Path string
}

// FunctionByName returns the named function, or nil.
func (m *Module) FunctionByName(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
