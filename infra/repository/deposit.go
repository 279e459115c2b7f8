package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/repository"
)

// depositRepository implements repository.DepositRepository over gorm.
type depositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository bound to db, which
// may be a plain connection or an open transaction.
func NewDepositRepository(db *gorm.DB) repository.DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) List(ctx context.Context) ([]dto.DepositRead, error) {
	var rows []Deposit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	reads := make([]dto.DepositRead, len(rows))
	for i, row := range rows {
		reads[i] = depositToRead(row)
	}
	return reads, nil
}

func (r *depositRepository) Get(ctx context.Context, id int64) (*dto.DepositRead, error) {
	var row Deposit
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := depositToRead(row)
	return &read, nil
}

func (r *depositRepository) Create(ctx context.Context, create dto.DepositCreate) (int64, error) {
	row := Deposit{
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

func (r *depositRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Deposit{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	return nil
}

func depositToRead(row Deposit) dto.DepositRead {
	return dto.DepositRead{
		ID:            row.ID,
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		OperationDate: row.OperationDate,
		CreatedAt:     row.CreatedAt,
		Notes:         row.Notes,
		Status:        row.Status,
	}
}

// deletedDepositRepository implements repository.DeletedDepositRepository
// over gorm.
type deletedDepositRepository struct {
	db *gorm.DB
}

// NewDeletedDepositRepository creates a new deleted-deposit audit repository.
func NewDeletedDepositRepository(db *gorm.DB) repository.DeletedDepositRepository {
	return &deletedDepositRepository{db: db}
}

func (r *deletedDepositRepository) Create(ctx context.Context, create dto.DeletedDepositCreate) error {
	row := DeletedDeposit{
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

func (r *deletedDepositRepository) GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedDepositRead, error) {
	var row DeletedDeposit
	err := r.db.WithContext(ctx).
		Order("deleted_at DESC").
		First(&row, "original_id = ?", originalID).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := deletedDepositToRead(row)
	return &read, nil
}

func (r *deletedDepositRepository) SearchRestorable(ctx context.Context, clientName string, amount decimal.Decimal, since time.Time) ([]dto.DeletedDepositRead, error) {
	var rows []DeletedDeposit
	err := r.db.WithContext(ctx).
		Where("client_name = ? AND amount = ? AND deleted_at >= ?", clientName, amount, since).
		Order("deleted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	reads := make([]dto.DeletedDepositRead, len(rows))
	for i, row := range rows {
		reads[i] = deletedDepositToRead(row)
	}
	return reads, nil
}

func (r *deletedDepositRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&DeletedDeposit{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	return nil
}

func deletedDepositToRead(row DeletedDeposit) dto.DeletedDepositRead {
	return dto.DeletedDepositRead{
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
