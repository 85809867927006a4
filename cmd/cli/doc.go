// Package cli constructs the qol-assist command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// around the migrate, trigger, and list-users commands.
package cli
