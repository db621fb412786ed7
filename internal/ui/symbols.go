package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Command accepted
	SymbolFail     = "✗" // Command failed
	SymbolWarning  = "⚠" // Pending warning
	SymbolInfo     = "ℹ" // Pending info
	SymbolPending  = "○" // Not started
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Done
	SymbolLocked   = "⊘" // Panel locked
)
