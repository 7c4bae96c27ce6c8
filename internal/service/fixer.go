package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teslamate-tools/addrfix/internal/geocoding"
	"github.com/teslamate-tools/addrfix/internal/metrics"
	"github.com/teslamate-tools/addrfix/internal/models"
	"github.com/teslamate-tools/addrfix/internal/repository"
)

// AddressFixService repairs unresolved address references in the telemetry
// database. It resolves position coordinates through a reverse geocoding
// provider, stores addresses deduplicated by their OSM natural key, and
// repoints the drive and charging process foreign keys.
type AddressFixService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	provider     geocoding.Provider   // Reverse geocoding provider
	providerName string               // Name of the provider for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	resolveDelay time.Duration        // Pause between consecutive provider calls
	pollInterval time.Duration        // Interval between passes in daemon mode
	dryRun       bool                 // When set, resolve and log but write nothing
}

// Summary reports the outcome of one repair pass. Each drive endpoint and each
// charging process counts as one record, so a drive with both references
// unresolved contributes two.
type Summary struct {
	Fixed    int // Fixed is the number of address references repointed.
	WouldFix int // WouldFix is the number of records that resolved in dry-run mode, nothing written.
	Failed   int // Failed is the number of records skipped after a resolution failure.
}

// NewAddressFixService creates a new instance of AddressFixService. It takes a
// logger, a repository interface, a reverse geocoding provider, the provider
// name for metrics, metrics for monitoring, the delay between provider calls,
// the polling interval for daemon mode, and the dry-run flag. It returns a
// pointer to the newly created AddressFixService.
func NewAddressFixService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	resolveDelay time.Duration,
	pollInterval time.Duration,
	dryRun bool,
) *AddressFixService {
	return &AddressFixService{
		log:          log,
		repo:         repo,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		resolveDelay: resolveDelay,
		pollInterval: pollInterval,
		dryRun:       dryRun,
	}
}

// Run starts the service in daemon mode: one pass immediately, then one per
// poll interval until the context is canceled.
func (fs *AddressFixService) Run(ctx context.Context) {
	ticker := time.NewTicker(fs.pollInterval)
	defer ticker.Stop()

	fs.log.InfoContext(ctx, "Address fix service started...")

	fs.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			fs.log.InfoContext(ctx, "Address fix service stopped.")
			return
		case <-ticker.C:
			fs.runPass(ctx)
		}
	}
}

func (fs *AddressFixService) runPass(ctx context.Context) {
	summary, err := fs.FixMissingAddresses(ctx)
	if err != nil {
		fs.log.ErrorContext(ctx, "Repair pass failed", "error", err)
		return
	}
	fs.log.InfoContext(ctx, "Repair pass finished",
		"fixed", summary.Fixed, "would_fix", summary.WouldFix, "failed", summary.Failed)
}

// FixMissingAddresses runs one sequential repair pass over all drives and
// charging processes with unresolved address references. A failure on one
// record is logged and counted but never aborts the pass; only a failure to
// fetch the candidate rows themselves is returned as an error. The pass is
// idempotent: candidates are defined by NULL references, and the address store
// never duplicates rows, so a second pass over the same data changes nothing.
func (fs *AddressFixService) FixMissingAddresses(ctx context.Context) (Summary, error) {
	var summary Summary

	drives, err := fs.repo.FetchDrivesMissingAddress(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch drives: %w", err)
	}

	charges, err := fs.repo.FetchChargesMissingAddress(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch charging processes: %w", err)
	}

	// Orphaned references cannot happen while the foreign keys hold, but a
	// damaged schema should be visible. They never block the repair pass.
	if orphaned, orphanErr := fs.repo.CountOrphanedReferences(ctx); orphanErr != nil {
		fs.log.WarnContext(ctx, "Failed to check for orphaned address references", "error", orphanErr)
	} else if orphaned > 0 {
		fs.log.WarnContext(ctx, "Found rows referencing missing address rows", "count", orphaned)
	}

	if len(drives) == 0 && len(charges) == 0 {
		fs.log.InfoContext(ctx, "No unresolved addresses found.")
		return summary, nil
	}

	fs.log.InfoContext(ctx, "Found records to repair", "drives", len(drives), "charges", len(charges))

	for _, drive := range drives {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		fs.fixDrive(ctx, drive, &summary)
	}

	for _, charge := range charges {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		fs.fixCharge(ctx, charge, &summary)
	}

	return summary, nil
}

// fixDrive repairs the start and end references of one drive independently, so
// a failed end resolution still leaves a repaired start in place.
func (fs *AddressFixService) fixDrive(ctx context.Context, drive models.Drive, summary *Summary) {
	if drive.StartAddressID == nil {
		if drive.StartPositionID == nil {
			fs.log.WarnContext(ctx, "Drive has no start position, skipping", "drive", drive.ID)
			fs.recordFailure(summary, "drive")
		} else {
			err := fs.fixReference(ctx, *drive.StartPositionID, func(addressID int64) error {
				return fs.repo.UpdateDriveStartAddress(ctx, drive.ID, addressID)
			})
			fs.recordOutcome(ctx, summary, "drive", err,
				"Fixed start address for drive", "Failed to fix start address for drive", drive.ID)
		}
	}

	if drive.EndAddressID == nil {
		if drive.EndPositionID == nil {
			fs.log.WarnContext(ctx, "Drive has no end position, skipping", "drive", drive.ID)
			fs.recordFailure(summary, "drive")
		} else {
			err := fs.fixReference(ctx, *drive.EndPositionID, func(addressID int64) error {
				return fs.repo.UpdateDriveEndAddress(ctx, drive.ID, addressID)
			})
			fs.recordOutcome(ctx, summary, "drive", err,
				"Fixed end address for drive", "Failed to fix end address for drive", drive.ID)
		}
	}
}

// fixCharge repairs the single address reference of one charging process.
func (fs *AddressFixService) fixCharge(ctx context.Context, charge models.ChargingProcess, summary *Summary) {
	if charge.PositionID == nil {
		fs.log.WarnContext(ctx, "Charging process has no position, skipping", "charge", charge.ID)
		fs.recordFailure(summary, "charge")
		return
	}

	err := fs.fixReference(ctx, *charge.PositionID, func(addressID int64) error {
		return fs.repo.UpdateChargingProcessAddress(ctx, charge.ID, addressID)
	})
	fs.recordOutcome(ctx, summary, "charge", err,
		"Fixed address for charging process", "Failed to fix address for charging process", charge.ID)
}

// fixReference resolves the position to an address, stores it through the
// deduplicating upsert and applies the foreign key update. In dry-run mode the
// resolution still happens but nothing is written.
func (fs *AddressFixService) fixReference(
	ctx context.Context,
	positionID int64,
	update func(addressID int64) error,
) error {
	address, err := fs.resolvePosition(ctx, positionID)
	if err != nil {
		return err
	}

	if fs.dryRun {
		fs.log.InfoContext(ctx, "Dry run, would repoint address reference",
			"position", positionID, "display_name", address.DisplayName)
		return nil
	}

	addressID, err := fs.repo.UpsertAddress(ctx, address)
	if err != nil {
		return err
	}
	fs.metrics.AddressesCreated.Inc()

	if err = update(addressID); err != nil {
		return err
	}

	fs.log.DebugContext(ctx, "Repointed address reference",
		"position", positionID, "address", addressID, "display_name", address.DisplayName)

	return nil
}

// resolvePosition loads the coordinates of a position and reverse geocodes
// them, pacing consecutive provider calls to respect the provider's rate
// limits.
func (fs *AddressFixService) resolvePosition(ctx context.Context, positionID int64) (*models.Address, error) {
	coords, err := fs.repo.GetPositionCoordinates(ctx, positionID)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	address, err := fs.provider.ReverseGeocode(ctx, coords)
	fs.metrics.RequestSeconds.WithLabelValues(fs.providerName).Observe(time.Since(startTime).Seconds())

	// Pace requests even after a failure, throttled providers answer errors too.
	fs.wait(ctx)

	if err != nil {
		fs.metrics.APIErrors.Inc()
		return nil, fmt.Errorf("failed to resolve position %d: %w", positionID, err)
	}

	return address, nil
}

// wait sleeps for the configured resolve delay unless the context ends first.
func (fs *AddressFixService) wait(ctx context.Context) {
	if fs.resolveDelay <= 0 {
		return
	}

	timer := time.NewTimer(fs.resolveDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (fs *AddressFixService) recordOutcome(
	ctx context.Context,
	summary *Summary,
	kind string,
	err error,
	successMsg, failureMsg string,
	recordID int64,
) {
	if err != nil {
		fs.log.ErrorContext(ctx, failureMsg, "id", recordID, "error", err)
		fs.recordFailure(summary, kind)
		return
	}

	// Dry-run resolutions are counted apart from real fixes, nothing was written.
	if fs.dryRun {
		summary.WouldFix++
		fs.metrics.RecordsProcessed.WithLabelValues(kind, "dry-run").Inc()
		return
	}

	fs.log.InfoContext(ctx, successMsg, "id", recordID)
	summary.Fixed++
	fs.metrics.RecordsProcessed.WithLabelValues(kind, "success").Inc()
}

func (fs *AddressFixService) recordFailure(summary *Summary, kind string) {
	summary.Failed++
	fs.metrics.RecordsProcessed.WithLabelValues(kind, "failure").Inc()
}
