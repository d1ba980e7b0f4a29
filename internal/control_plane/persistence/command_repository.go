package persistence

import (
	"context"
	"errors"
	"fmt"
	"nami-server/internal/control_plane/persistence/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/sql"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

func NewCommandRepository(orm sql.ORM) (*SimpleCommandRepository, error) {
	err := orm.AutoMigrate(&internal.Command{}, &internal.DispatchLease{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating command: %w", err)
	}

	repo := &SimpleCommandRepository{orm: orm}
	if err := repo.ensureLease(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

var _ usecases.CommandRepository = (*SimpleCommandRepository)(nil)

type SimpleCommandRepository struct {
	orm sql.ORM
}

func (r *SimpleCommandRepository) ensureLease(ctx context.Context) error {
	var lease internal.DispatchLease
	err := r.orm.WithContext(ctx).First(&lease, "id = ?", internal.FleetLeaseID).Error()
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrRecordNotFound) {
		return fmt.Errorf("loading dispatch lease: %w", err)
	}

	err = r.orm.WithContext(ctx).Create(&internal.DispatchLease{ID: internal.FleetLeaseID}).Error()
	if err != nil {
		return fmt.Errorf("creating dispatch lease: %w", err)
	}
	return nil
}

func (r *SimpleCommandRepository) Create(ctx context.Context, cmd domain.Command) error {
	entity, err := internal.FromCommand(cmd)
	if err != nil {
		return fmt.Errorf("mapping command: %w", err)
	}

	err = r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		seq, err := nextSeq(tx)
		if err != nil {
			return err
		}
		entity.Seq = seq
		return tx.Create(&entity).Error()
	})
	if err != nil {
		return fmt.Errorf("creating command: %w", err)
	}

	return nil
}

func (r *SimpleCommandRepository) GetByID(ctx context.Context, id domain.ID) (domain.Command, error) {
	var entity internal.Command
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Command{}, domain.ErrCommandNotFound
	}
	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain()
}

func (r *SimpleCommandRepository) FindAll(ctx context.Context, filter usecases.CommandFilter) ([]domain.Command, error) {
	query := r.orm.WithContext(ctx).Model(&internal.Command{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Intent != nil {
		query = query.Where("intent = ?", string(*filter.Intent))
	}

	limit := filter.Limit
	if limit <= 0 || limit > usecases.MaxListLimit {
		limit = usecases.DefaultListLimit
	}

	var entities internal.CommandSet
	err := query.
		Order("created_at DESC, seq DESC").
		Limit(limit).
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	return entities.ToDomain()
}

func (r *SimpleCommandRepository) actionable(ctx context.Context, now time.Time) sql.ORM {
	return r.orm.
		WithContext(ctx).
		Model(&internal.Command{}).
		Where("(status = ? OR (status = ? AND requires_confirmation = ?)) AND dispatch_after <= ?",
			string(domain.CommandStatusConfirmed),
			string(domain.CommandStatusPending),
			false,
			now.UTC(),
		)
}

func (r *SimpleCommandRepository) FindNextActionable(ctx context.Context, now time.Time, intents []domain.Intent) (domain.Command, error) {
	query := r.actionable(ctx, now)
	if len(intents) > 0 {
		values := make([]string, len(intents))
		for i, intent := range intents {
			values[i] = string(intent)
		}
		query = query.Where("intent IN ?", values)
	}

	var entities internal.CommandSet
	err := query.
		Order("created_at ASC, seq ASC").
		Limit(1).
		Find(&entities).
		Error()

	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}
	if len(entities) == 0 {
		return domain.Command{}, domain.ErrCommandNotFound
	}

	return entities[0].ToDomain()
}

func (r *SimpleCommandRepository) CountActionable(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.actionable(ctx, now).Count(&count).Error()
	if err != nil {
		return 0, fmt.Errorf("database query: %w", err)
	}
	return count, nil
}

func (r *SimpleCommandRepository) ExistsWaiting(ctx context.Context, intent domain.Intent, target string, since time.Time) (bool, error) {
	var count int64
	err := r.orm.
		WithContext(ctx).
		Model(&internal.Command{}).
		Where("status IN ? AND intent = ? AND target = ? AND created_at >= ?",
			[]string{string(domain.CommandStatusPending), string(domain.CommandStatusConfirmed)},
			string(intent),
			target,
			since.UTC(),
		).
		Count(&count).
		Error()

	if err != nil {
		return false, fmt.Errorf("database query: %w", err)
	}
	return count > 0, nil
}

func (r *SimpleCommandRepository) FindExecuting(ctx context.Context) (domain.Command, error) {
	var entities internal.CommandSet
	err := r.orm.
		WithContext(ctx).
		Where("status = ?", string(domain.CommandStatusExecuting)).
		Order("claimed_at DESC").
		Limit(1).
		Find(&entities).
		Error()

	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}
	if len(entities) == 0 {
		return domain.Command{}, domain.ErrCommandNotFound
	}

	return entities[0].ToDomain()
}

func (r *SimpleCommandRepository) FindStalled(ctx context.Context, claimedBefore time.Time) ([]domain.Command, error) {
	var entities internal.CommandSet
	err := r.orm.
		WithContext(ctx).
		Where("status = ? AND claimed_at < ?", string(domain.CommandStatusExecuting), claimedBefore.UTC()).
		Order("claimed_at ASC").
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	return entities.ToDomain()
}

func (r *SimpleCommandRepository) SaveClaim(ctx context.Context, cmd domain.Command, expected domain.Version) error {
	entity, err := internal.FromCommand(cmd)
	if err != nil {
		return fmt.Errorf("mapping command: %w", err)
	}

	return r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		lease := tx.
			Model(&internal.DispatchLease{}).
			Where("id = ? AND command_id = ?", internal.FleetLeaseID, "").
			Updates(map[string]any{
				"command_id": entity.ID,
				"robot_id":   entity.RobotID,
				"claimed_at": entity.ClaimedAt,
			})
		if err := lease.Error(); err != nil {
			return fmt.Errorf("taking dispatch lease: %w", err)
		}
		if lease.RowsAffected() == 0 {
			return usecases.ErrFleetBusy
		}

		return swapCommand(tx, entity, expected)
	})
}

func (r *SimpleCommandRepository) SaveTransition(ctx context.Context, cmd domain.Command, expected domain.Version) error {
	entity, err := internal.FromCommand(cmd)
	if err != nil {
		return fmt.Errorf("mapping command: %w", err)
	}

	return r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		if err := swapCommand(tx, entity, expected); err != nil {
			return err
		}

		if cmd.Status == domain.CommandStatusExecuting {
			return nil
		}

		err := tx.
			Model(&internal.DispatchLease{}).
			Where("id = ? AND command_id = ?", internal.FleetLeaseID, entity.ID).
			Updates(map[string]any{
				"command_id": "",
				"robot_id":   "",
				"claimed_at": nil,
			}).
			Error()
		if err != nil {
			return fmt.Errorf("releasing dispatch lease: %w", err)
		}
		return nil
	})
}

const _seqAttempts = 16

// nextSeq bumps the arrival counter on the lease row. Commands created with
// the same timestamp keep their arrival order through it.
func nextSeq(tx sql.ORM) (uint64, error) {
	for range _seqAttempts {
		var lease internal.DispatchLease
		if err := tx.First(&lease, "id = ?", internal.FleetLeaseID).Error(); err != nil {
			return 0, fmt.Errorf("loading dispatch lease: %w", err)
		}

		next := lease.LastSeq + 1
		result := tx.
			Model(&internal.DispatchLease{}).
			Where("id = ? AND last_seq = ?", internal.FleetLeaseID, lease.LastSeq).
			Updates(map[string]any{"last_seq": next})
		if err := result.Error(); err != nil {
			return 0, fmt.Errorf("numbering command: %w", err)
		}
		if result.RowsAffected() == 1 {
			return next, nil
		}
	}
	return 0, usecases.ErrVersionConflict
}

func swapCommand(tx sql.ORM, entity internal.Command, expected domain.Version) error {
	result := tx.
		Model(&internal.Command{}).
		Where("id = ? AND version = ?", entity.ID, int(expected)).
		Updates(entity.TransitionColumns())
	if err := result.Error(); err != nil {
		return fmt.Errorf("updating command: %w", err)
	}
	if result.RowsAffected() == 0 {
		return usecases.ErrVersionConflict
	}
	return nil
}
