package module

// ID identifies a Module within a compilation, spec.md's `ModuleId`.
// Declared in its own minimal file so internal/ctx (and other components
// built before the rest of the Importer) can depend on the identifier
// without pulling in the full Module/Importer machinery.
type ID uint32

// NoID marks the absence of a module, e.g. an unresolved import.
const NoID ID = 0
