package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/repository"
)

// transferRepository implements repository.TransferRepository over gorm.
type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new transfer repository bound to db.
func NewTransferRepository(db *gorm.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) List(ctx context.Context) ([]dto.TransferRead, error) {
	var rows []Transfer
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	reads := make([]dto.TransferRead, len(rows))
	for i, row := range rows {
		reads[i] = transferToRead(row)
	}
	return reads, nil
}

func (r *transferRepository) Get(ctx context.Context, id int64) (*dto.TransferRead, error) {
	var row Transfer
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := transferToRead(row)
	return &read, nil
}

func (r *transferRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Transfer{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	return nil
}

func transferToRead(row Transfer) dto.TransferRead {
	return dto.TransferRead{
		ID:             row.ID,
		FromClient:     row.FromClient,
		ToClient:       row.ToClient,
		Amount:         row.Amount,
		OperationDate:  row.OperationDate,
		CreatedAt:      row.CreatedAt,
		Reason:         row.Reason,
		Status:         row.Status,
		SupersedesKind: row.SupersedesKind,
		SupersedesID:   row.SupersedesID,
	}
}

// deletedTransferRepository implements repository.DeletedTransferRepository
// over gorm.
type deletedTransferRepository struct {
	db *gorm.DB
}

// NewDeletedTransferRepository creates a new deleted-transfer audit
// repository.
func NewDeletedTransferRepository(db *gorm.DB) repository.DeletedTransferRepository {
	return &deletedTransferRepository{db: db}
}

func (r *deletedTransferRepository) Create(ctx context.Context, create dto.DeletedTransferCreate) error {
	row := DeletedTransfer{
		OriginalID:     create.OriginalID,
		FromClient:     create.FromClient,
		ToClient:       create.ToClient,
		Amount:         create.Amount,
		OperationDate:  create.OperationDate,
		Reason:         create.Reason,
		Status:         create.Status,
		SupersedesKind: create.SupersedesKind,
		SupersedesID:   create.SupersedesID,
		DeletedBy:      create.DeletedBy,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	return nil
}

func (r *deletedTransferRepository) GetByOriginalID(ctx context.Context, originalID int64) (*dto.DeletedTransferRead, error) {
	var row DeletedTransfer
	err := r.db.WithContext(ctx).
		Order("deleted_at DESC").
		First(&row, "original_id = ?", originalID).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	read := deletedTransferToRead(row)
	return &read, nil
}

func deletedTransferToRead(row DeletedTransfer) dto.DeletedTransferRead {
	return dto.DeletedTransferRead{
		ID:             row.ID,
		OriginalID:     row.OriginalID,
		FromClient:     row.FromClient,
		ToClient:       row.ToClient,
		Amount:         row.Amount,
		OperationDate:  row.OperationDate,
		Reason:         row.Reason,
		Status:         row.Status,
		SupersedesKind: row.SupersedesKind,
		SupersedesID:   row.SupersedesID,
		DeletedBy:      row.DeletedBy,
		DeletedAt:      row.DeletedAt,
	}
}
