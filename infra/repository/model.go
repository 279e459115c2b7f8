// Package repository implements the persistence interfaces of
// pkg/repository over gorm and the hosted postgres service: the three
// canonical collections, their audit mirrors, the unit of work, and the
// read-only ledger source.
package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is the canonical deposits row.
type Deposit struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ClientName    string          `gorm:"type:varchar(255);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate *time.Time      `gorm:"column:operation_date;index"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	Notes         string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null;default:'completed'"`
}

// TableName specifies the table name for the Deposit model.
func (Deposit) TableName() string { return "deposits" }

// Withdrawal is the canonical withdrawals row.
type Withdrawal struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ClientName    string          `gorm:"type:varchar(255);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate *time.Time      `gorm:"column:operation_date;index"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	Notes         string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null;default:'completed'"`
}

// TableName specifies the table name for the Withdrawal model.
func (Withdrawal) TableName() string { return "withdrawals" }

// Transfer is the canonical transfers row. SupersedesKind/SupersedesID link
// the transfer to the deposit or withdrawal it replaced; nullable because
// rows created before the link existed don't carry it.
type Transfer struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	FromClient     string          `gorm:"type:varchar(255);not null;index"`
	ToClient       string          `gorm:"type:varchar(255);not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate  *time.Time      `gorm:"column:operation_date;index"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	Reason         string          `gorm:"type:text"`
	Status         string          `gorm:"type:varchar(32);not null;default:'completed'"`
	SupersedesKind *string         `gorm:"type:varchar(16);column:supersedes_kind"`
	SupersedesID   *int64          `gorm:"column:supersedes_id"`
}

// TableName specifies the table name for the Transfer model.
func (Transfer) TableName() string { return "transfers" }

// DeletedDeposit is the audit mirror of a removed deposit row.
type DeletedDeposit struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OriginalID    int64           `gorm:"column:original_id;index"`
	ClientName    string          `gorm:"type:varchar(255);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate *time.Time      `gorm:"column:operation_date"`
	Notes         string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null"`
	DeletedBy     uuid.UUID       `gorm:"type:uuid"`
	DeletedAt     time.Time       `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for the DeletedDeposit model.
func (DeletedDeposit) TableName() string { return "deleted_deposits" }

// DeletedWithdrawal is the audit mirror of a removed withdrawal row.
type DeletedWithdrawal struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OriginalID    int64           `gorm:"column:original_id;index"`
	ClientName    string          `gorm:"type:varchar(255);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate *time.Time      `gorm:"column:operation_date"`
	Notes         string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null"`
	DeletedBy     uuid.UUID       `gorm:"type:uuid"`
	DeletedAt     time.Time       `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for the DeletedWithdrawal model.
func (DeletedWithdrawal) TableName() string { return "deleted_withdrawals" }

// DeletedTransfer is the audit mirror of a removed transfer row.
type DeletedTransfer struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OriginalID     int64           `gorm:"column:original_id;index"`
	FromClient     string          `gorm:"type:varchar(255);not null"`
	ToClient       string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OperationDate  *time.Time      `gorm:"column:operation_date"`
	Reason         string          `gorm:"type:text"`
	Status         string          `gorm:"type:varchar(32);not null"`
	SupersedesKind *string         `gorm:"type:varchar(16);column:supersedes_kind"`
	SupersedesID   *int64          `gorm:"column:supersedes_id"`
	DeletedBy      uuid.UUID       `gorm:"type:uuid"`
	DeletedAt      time.Time       `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for the DeletedTransfer model.
func (DeletedTransfer) TableName() string { return "deleted_transfers" }

// Models lists every persisted model for automigration.
func Models() []any {
	return []any{
		&Deposit{},
		&Withdrawal{},
		&Transfer{},
		&DeletedDeposit{},
		&DeletedWithdrawal{},
		&DeletedTransfer{},
	}
}
