package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Repository is the document-store gateway backed by Postgres. The two
// collection names come from configuration; business logic never sees them.
type Repository struct {
	db                *gorm.DB
	manualOrdersTable string
	sourceOrdersTable string
	timeout           time.Duration
	logger            *slog.Logger
}

func NewRepository(db *gorm.DB, manualOrdersTable, sourceOrdersTable string, timeout time.Duration, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Repository{
		db:                db,
		manualOrdersTable: manualOrdersTable,
		sourceOrdersTable: sourceOrdersTable,
		timeout:           timeout,
		logger:            logger,
	}
}

// Migrate creates the gateway's tables. The manual/source order tables stand
// in for externally owned collections, so this is idempotent and additive.
func (r *Repository) Migrate() error {
	if err := r.db.Table(r.manualOrdersTable).AutoMigrate(&manualOrderModel{}); err != nil {
		return err
	}
	if err := r.db.Table(r.sourceOrdersTable).AutoMigrate(&sourceOrderModel{}); err != nil {
		return err
	}
	return r.db.AutoMigrate(&outboxModel{})
}

func (r *Repository) FindByID(ctx context.Context, id string) (entities.ManualOrder, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var row manualOrderModel
	err := r.db.WithContext(ctx).
		Table(r.manualOrdersTable).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ManualOrder{}, domainerrors.ErrOrderNotFound
		}
		return entities.ManualOrder{}, wrapStoreErr(err)
	}
	return row.toEntity()
}

func (r *Repository) ListPending(ctx context.Context) ([]entities.ManualOrder, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rows []manualOrderModel
	if err := r.db.WithContext(ctx).
		Table(r.manualOrdersTable).
		Where("order_complete = ? AND claimed = ?", false, false).
		Order("order_submit_date ASC").
		Find(&rows).
		Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return toEntities(dedupeByID(rows))
}

func (r *Repository) ListClaimedIncomplete(ctx context.Context) ([]entities.ManualOrder, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rows []manualOrderModel
	if err := r.db.WithContext(ctx).
		Table(r.manualOrdersTable).
		Where("order_complete = ? AND claimed = ?", false, true).
		Order("id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return toEntities(dedupeByID(rows))
}

func (r *Repository) Save(ctx context.Context, order entities.ManualOrder) (entities.ManualOrder, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var saved entities.ManualOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		saved, txErr = r.replace(tx, order)
		return txErr
	})
	if err != nil {
		return entities.ManualOrder{}, err
	}
	return saved, nil
}

func (r *Repository) SaveWithEvent(ctx context.Context, order entities.ManualOrder, event ports.LifecycleEvent) (entities.ManualOrder, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	payload, err := json.Marshal(event.Envelope())
	if err != nil {
		return entities.ManualOrder{}, err
	}

	var saved entities.ManualOrder
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		saved, txErr = r.replace(tx, order)
		if txErr != nil {
			return txErr
		}
		row := outboxModel{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: event.OccurredAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				// Same event id written twice; the state change already holds.
				return nil
			}
			return wrapStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return entities.ManualOrder{}, err
	}
	return saved, nil
}

// replace is a full-record overwrite guarded by the version token the caller
// read. RowsAffected distinguishes a stale token from a vanished row.
func (r *Repository) replace(tx *gorm.DB, order entities.ManualOrder) (entities.ManualOrder, error) {
	row, err := modelFromEntity(order)
	if err != nil {
		return entities.ManualOrder{}, err
	}
	result := tx.Table(r.manualOrdersTable).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(row.updateColumns())
	if result.Error != nil {
		return entities.ManualOrder{}, wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Table(r.manualOrdersTable).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return entities.ManualOrder{}, wrapStoreErr(err)
		}
		if count == 0 {
			return entities.ManualOrder{}, domainerrors.ErrOrderNotFound
		}
		return entities.ManualOrder{}, domainerrors.ErrVersionConflict
	}
	order.Version++
	return order, nil
}

func (r *Repository) GetSourceOrder(ctx context.Context, id string) (entities.SourceOrder, bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var row sourceOrderModel
	err := r.db.WithContext(ctx).
		Table(r.sourceOrdersTable).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SourceOrder{}, false, nil
		}
		return entities.SourceOrder{}, false, wrapStoreErr(err)
	}
	source, err := row.toEntity()
	if err != nil {
		return entities.SourceOrder{}, false, err
	}
	return source, true, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	return nil
}

func (r *Repository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func wrapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.ErrStoreUnavailable
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func dedupeByID(rows []manualOrderModel) []manualOrderModel {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, row)
	}
	return out
}

func toEntities(rows []manualOrderModel) ([]entities.ManualOrder, error) {
	orders := make([]entities.ManualOrder, 0, len(rows))
	for _, row := range rows {
		order, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// SystemClock backs the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator backs the IDGenerator port.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type manualOrderModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Claimed         bool       `gorm:"column:claimed"`
	OrderComplete   bool       `gorm:"column:order_complete"`
	TimeClaimed     *time.Time `gorm:"column:time_claimed"`
	TimeCompleted   *time.Time `gorm:"column:time_completed"`
	Notes           string     `gorm:"column:notes"`
	OrderSubmitDate time.Time  `gorm:"column:order_submit_date"`
	Sourcing        []byte     `gorm:"column:sourcing;type:jsonb"`
	Version         int64      `gorm:"column:version"`
}

func (m manualOrderModel) toEntity() (entities.ManualOrder, error) {
	var sourcing []entities.SourceGroup
	if len(m.Sourcing) > 0 {
		if err := json.Unmarshal(m.Sourcing, &sourcing); err != nil {
			return entities.ManualOrder{}, err
		}
	}
	return entities.ManualOrder{
		ID:              m.ID,
		Claimed:         m.Claimed,
		OrderComplete:   m.OrderComplete,
		TimeClaimed:     m.TimeClaimed,
		TimeCompleted:   m.TimeCompleted,
		Notes:           m.Notes,
		OrderSubmitDate: m.OrderSubmitDate,
		Sourcing:        sourcing,
		Version:         m.Version,
	}, nil
}

func modelFromEntity(order entities.ManualOrder) (manualOrderModel, error) {
	sourcing, err := json.Marshal(order.Sourcing)
	if err != nil {
		return manualOrderModel{}, err
	}
	return manualOrderModel{
		ID:              order.ID,
		Claimed:         order.Claimed,
		OrderComplete:   order.OrderComplete,
		TimeClaimed:     order.TimeClaimed,
		TimeCompleted:   order.TimeCompleted,
		Notes:           order.Notes,
		OrderSubmitDate: order.OrderSubmitDate.UTC(),
		Sourcing:        sourcing,
		Version:         order.Version,
	}, nil
}

// updateColumns spells out every replaceable field so a Save is a full
// overwrite of the record the caller read, nil timestamps included.
func (m manualOrderModel) updateColumns() map[string]any {
	return map[string]any{
		"claimed":           m.Claimed,
		"order_complete":    m.OrderComplete,
		"time_claimed":      m.TimeClaimed,
		"time_completed":    m.TimeCompleted,
		"notes":             m.Notes,
		"order_submit_date": m.OrderSubmitDate,
		"sourcing":          m.Sourcing,
		"version":           gorm.Expr("version + 1"),
	}
}

type sourceOrderModel struct {
	ID    string `gorm:"column:id;primaryKey"`
	Items []byte `gorm:"column:items;type:jsonb"`
}

func (m sourceOrderModel) toEntity() (entities.SourceOrder, error) {
	var items []entities.SourceLine
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &items); err != nil {
			return entities.SourceOrder{}, err
		}
	}
	return entities.SourceOrder{ID: m.ID, Items: items}, nil
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload;type:jsonb"`
	Status    string     `gorm:"column:status;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "manual_order_outbox"
}
