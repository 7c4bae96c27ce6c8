package models

// Drive represents a recorded trip whose start and end address references may
// still be unresolved. Position ids point into the read-only positions table;
// address ids are nullable foreign keys into the addresses table.
type Drive struct {
	ID              int64  // ID is the unique identifier of the drive.
	StartPositionID *int64 // StartPositionID links the first recorded position.
	EndPositionID   *int64 // EndPositionID links the last recorded position.
	StartAddressID  *int64 // StartAddressID is nil while the start address is unresolved.
	EndAddressID    *int64 // EndAddressID is nil while the end address is unresolved.
}

// ChargingProcess represents a charging session with a single, possibly
// unresolved, address reference.
type ChargingProcess struct {
	ID         int64  // ID is the unique identifier of the charging process.
	PositionID *int64 // PositionID links the position where the car charged.
	AddressID  *int64 // AddressID is nil while the address is unresolved.
}
