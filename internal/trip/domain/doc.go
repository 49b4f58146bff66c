// Package domain contains the trip lifecycle model: phases and their
// transition table, crew assignments, the passenger manifest, and the
// per-trip checklist snapshot.
//
// Everything here is pure state and validation. Persistence and gate
// orchestration live in the storage and service packages.
package domain
