package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/repository"
)

// withdrawalRepository implements repository.WithdrawalRepository over gorm.
type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository bound to db.
func NewWithdrawalRepository(db *gorm.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) List(ctx context.Context) ([]dto.WithdrawalRead, error) {
	var rows []Withdrawal
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	reads := make([]dto.WithdrawalRead, len(rows))
	for i, row := range rows {
		reads[i] = withdrawalToRead(row)
	}
	return reads, nil
}

func (r *withdrawalRepository) Get(ctx context.Context, id int64) (*dto.WithdrawalRead, error) {
	var row Withdrawal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := withdrawalToRead(row)
	return &read, nil
}

func (r *withdrawalRepository) Create(ctx context.Context, create dto.WithdrawalCreate) (int64, error) {
	row := Withdrawal{
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		Notes:         create.Notes,
		Status:        create.Status,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, MapGormErrorToDomain(err)
	}
	return row.ID, nil
}

func (r *withdrawalRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Withdrawal{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	return nil
}

func withdrawalToRead(row Withdrawal) dto.WithdrawalRead {
	return dto.WithdrawalRead{
		ID:            row.ID,
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		OperationDate: row.OperationDate,
		CreatedAt:     row.CreatedAt,
		Notes:         row.Notes,
		Status:        row.Status,
	}
}

// deletedWithdrawalRepository implements
// repository.DeletedWithdrawalRepository over gorm.
type deletedWithdrawalRepository struct {
	db *gorm.DB
}

// NewDeletedWithdrawalRepository creates a new deleted-withdrawal audit
// repository.
func NewDeletedWithdrawalRepository(db *gorm.DB) repository.DeletedWithdrawalRepository {
	return &deletedWithdrawalRepository{db: db}
}

func (r *deletedWithdrawalRepository) Create(ctx context.Context, create dto.DeletedWithdrawalCreate) error {
	row := DeletedWithdrawal{
		OriginalID:    create.OriginalID,
		ClientName:    create.ClientName,
		Amount:        create.Amount,
		OperationDate: create.OperationDate,
		Notes:         create.Notes,
		Status:        create.Status,
		DeletedBy:     create.DeletedBy,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	return nil
}

func (r *deletedWithdrawalRepository) GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedWithdrawalRead, error) {
	var row DeletedWithdrawal
	err := r.db.WithContext(ctx).
		Order("deleted_at DESC").
		First(&row, "original_id = ?", originalID).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := deletedWithdrawalToRead(row)
	return &read, nil
}

func (r *deletedWithdrawalRepository) SearchRestorable(ctx context.Context, clientName string, amount decimal.Decimal, since time.Time) ([]dto.DeletedWithdrawalRead, error) {
	var rows []DeletedWithdrawal
	err := r.db.WithContext(ctx).
		Where("client_name = ? AND amount = ? AND deleted_at >= ?", clientName, amount, since).
		Order("deleted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	reads := make([]dto.DeletedWithdrawalRead, len(rows))
	for i, row := range rows {
		reads[i] = deletedWithdrawalToRead(row)
	}
	return reads, nil
}

func (r *deletedWithdrawalRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&DeletedWithdrawal{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	return nil
}

func deletedWithdrawalToRead(row DeletedWithdrawal) dto.DeletedWithdrawalRead {
	return dto.DeletedWithdrawalRead{
		ID:            row.ID,
		OriginalID:    row.OriginalID,
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		OperationDate: row.OperationDate,
		Notes:         row.Notes,
		Status:        row.Status,
		DeletedBy:     row.DeletedBy,
		DeletedAt:     row.DeletedAt,
	}
}
