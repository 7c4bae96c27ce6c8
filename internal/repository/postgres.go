package repository

import (
	"context"
	"fmt"

	"github.com/teslamate-tools/addrfix/internal/models"
)

// FetchDrivesMissingAddress retrieves the drives whose start or end address
// reference is still unresolved. Both position ids are fetched as well so the
// caller can resolve the coordinates without a second round trip per drive.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
//
// Returns:
// - A slice of models.Drive containing the drives that need repair.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchDrivesMissingAddress(ctx context.Context) ([]models.Drive, error) {
	var drives []models.Drive
	query := `
		SELECT id, start_position_id, end_position_id, start_address_id, end_address_id
		FROM drives
		WHERE start_address_id IS NULL OR end_address_id IS NULL
		ORDER BY id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query drives with missing address: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var drive models.Drive
		if errScan := rows.Scan(
			&drive.ID,
			&drive.StartPositionID,
			&drive.EndPositionID,
			&drive.StartAddressID,
			&drive.EndAddressID,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan drive with missing address: %w", errScan)
		}
		r.log.DebugContext(ctx, "Found drive with unresolved address", "ID", drive.ID)
		drives = append(drives, drive)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return drives, nil
}

// FetchChargesMissingAddress retrieves the charging processes whose address
// reference is still unresolved.
func (r *Repository) FetchChargesMissingAddress(ctx context.Context) ([]models.ChargingProcess, error) {
	var charges []models.ChargingProcess
	query := `
		SELECT id, position_id, address_id
		FROM charging_processes
		WHERE address_id IS NULL
		ORDER BY id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query charging processes with missing address: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var charge models.ChargingProcess
		if errScan := rows.Scan(&charge.ID, &charge.PositionID, &charge.AddressID); errScan != nil {
			return nil, fmt.Errorf("failed to scan charging process with missing address: %w", errScan)
		}
		r.log.DebugContext(ctx, "Found charging process with unresolved address", "ID", charge.ID)
		charges = append(charges, charge)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return charges, nil
}

// GetPositionCoordinates reads the latitude and longitude of a single position.
// Positions are read-only input to the repair pass.
func (r *Repository) GetPositionCoordinates(
	ctx context.Context,
	positionID int64,
) (models.Coordinates, error) {
	var coords models.Coordinates
	query := `
		SELECT latitude, longitude
		FROM positions
		WHERE id = $1;
	`

	err := r.db.QueryRow(ctx, query, positionID).Scan(&coords.Latitude, &coords.Longitude)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to get coordinates for position %d: %w", positionID, err)
	}

	return coords, nil
}

// CountOrphanedReferences reports how many drive and charging process rows
// point at an address id with no matching address row. With foreign keys in
// place this stays zero; a non-zero count means the schema lost its
// constraints and is logged as a warning by the caller.
func (r *Repository) CountOrphanedReferences(ctx context.Context) (int64, error) {
	var count int64
	query := `
		SELECT (
			SELECT COUNT(*) FROM drives d
			WHERE (d.start_address_id IS NOT NULL
					AND NOT EXISTS (SELECT 1 FROM addresses a WHERE a.id = d.start_address_id))
				OR (d.end_address_id IS NOT NULL
					AND NOT EXISTS (SELECT 1 FROM addresses a WHERE a.id = d.end_address_id))
		) + (
			SELECT COUNT(*) FROM charging_processes c
			WHERE c.address_id IS NOT NULL
				AND NOT EXISTS (SELECT 1 FROM addresses a WHERE a.id = c.address_id)
		);
	`

	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned address references: %w", err)
	}

	return count, nil
}

// UpsertAddress stores an address deduplicated by its (osm_id, osm_type)
// natural key and returns the row id. The insert and the lookup run as one
// atomic statement guarded by the unique constraint, so repeated calls with
// the same key always return the same id and never touch the existing row
// (first write wins).
func (r *Repository) UpsertAddress(ctx context.Context, address *models.Address) (int64, error) {
	var addressID int64
	query := `
		WITH ins AS (
			INSERT INTO addresses (
				display_name, latitude, longitude, name, house_number, road,
				neighbourhood, city, county, postcode, state, state_district,
				country, raw, inserted_at, updated_at, osm_id, osm_type
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, NOW(), NOW(), $15, $16)
			ON CONFLICT (osm_id, osm_type) DO NOTHING
			RETURNING id
		)
		SELECT id FROM ins
		UNION ALL
		SELECT id FROM addresses WHERE osm_id = $15 AND osm_type = $16
		LIMIT 1;
	`

	err := r.db.QueryRow(ctx, query,
		address.DisplayName,
		address.Latitude,
		address.Longitude,
		address.Name,
		address.HouseNumber,
		address.Road,
		address.Neighbourhood,
		address.City,
		address.County,
		address.Postcode,
		address.State,
		address.StateDistrict,
		address.Country,
		address.Raw,
		address.OsmID,
		address.OsmType,
	).Scan(&addressID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert address (%d, %s): %w", address.OsmID, address.OsmType, err)
	}

	return addressID, nil
}

// UpdateDriveStartAddress points the start address reference of a drive at the
// given address row.
func (r *Repository) UpdateDriveStartAddress(ctx context.Context, driveID, addressID int64) error {
	query := `
		UPDATE drives
		SET start_address_id = $1
		WHERE id = $2;
	`

	_, err := r.db.Exec(ctx, query, addressID, driveID)
	if err != nil {
		return fmt.Errorf("failed to update start address for drive %d: %w", driveID, err)
	}

	return nil
}

// UpdateDriveEndAddress points the end address reference of a drive at the
// given address row.
func (r *Repository) UpdateDriveEndAddress(ctx context.Context, driveID, addressID int64) error {
	query := `
		UPDATE drives
		SET end_address_id = $1
		WHERE id = $2;
	`

	_, err := r.db.Exec(ctx, query, addressID, driveID)
	if err != nil {
		return fmt.Errorf("failed to update end address for drive %d: %w", driveID, err)
	}

	return nil
}

// UpdateChargingProcessAddress points the address reference of a charging
// process at the given address row.
func (r *Repository) UpdateChargingProcessAddress(ctx context.Context, chargeID, addressID int64) error {
	query := `
		UPDATE charging_processes
		SET address_id = $1
		WHERE id = $2;
	`

	_, err := r.db.Exec(ctx, query, addressID, chargeID)
	if err != nil {
		return fmt.Errorf("failed to update address for charging process %d: %w", chargeID, err)
	}

	return nil
}
