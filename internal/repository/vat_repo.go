package repository

import (
	"context"
	"errors"

	"order17vat/internal/model"

	"gorm.io/gorm"
)

// VatRepository owns the order17vat side table: one row per order holding the 17% VAT flag.
type VatRepository interface {
	// FindIDByOrder returns the record id for the order's row; found is false when no row exists.
	FindIDByOrder(ctx context.Context, orderID uint) (id uint, found bool, err error)
	// GetVat17Status returns the order's flag, or false when no row exists.
	GetVat17Status(ctx context.Context, orderID uint) (bool, error)
	GetVat17Statuses(ctx context.Context, orderIDs []uint) (map[uint]bool, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.VatFlag, error)
	Create(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error)
	Update(ctx context.Context, flag *model.VatFlag) error
	DeleteByOrder(ctx context.Context, orderID uint) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
	CountByOrder(ctx context.Context, orderID uint) (int64, error)

	InstallTable(ctx context.Context) error
	DropTable(ctx context.Context) error
}

type vatRepository struct {
	db *gorm.DB
}

func NewVatRepository(db *gorm.DB) VatRepository {
	return &vatRepository{db: db}
}

func (r *vatRepository) FindIDByOrder(ctx context.Context, orderID uint) (uint, bool, error) {
	var flag model.VatFlag
	err := GetDB(ctx, r.db).
		Select("id_vat17").
		Where("id_order = ?", orderID).
		Order("id_vat17").
		Take(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return flag.ID, true, nil
}

func (r *vatRepository) GetVat17Status(ctx context.Context, orderID uint) (bool, error) {
	var flag model.VatFlag
	err := GetDB(ctx, r.db).
		Where("id_order = ?", orderID).
		Order("id_vat17").
		Take(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flag.IsVat17, nil
}

// GetVat17Statuses looks up a page of orders at once. Orders without a row map to false.
func (r *vatRepository) GetVat17Statuses(ctx context.Context, orderIDs []uint) (map[uint]bool, error) {
	statuses := make(map[uint]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return statuses, nil
	}
	for _, id := range orderIDs {
		statuses[id] = false
	}

	var flags []model.VatFlag
	if err := GetDB(ctx, r.db).Where("id_order IN ?", orderIDs).Find(&flags).Error; err != nil {
		return nil, err
	}
	for _, f := range flags {
		statuses[f.OrderID] = f.IsVat17
	}
	return statuses, nil
}

func (r *vatRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.VatFlag, error) {
	var flag model.VatFlag
	err := ForUpdate(ctx, r.db).
		Where("id_vat17 = ?", id).
		Take(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVatFlagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

// Create inserts the order's row inside its own savepoint so a uniqueness conflict
// leaves an enclosing transaction usable.
func (r *vatRepository) Create(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error) {
	flag := &model.VatFlag{OrderID: orderID, IsVat17: isVat17}
	err := Savepoint(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(flag).Error
	})
	if err != nil {
		if IsDuplicateKeyErr(err) {
			err = errors.Join(ErrDuplicateVatFlag, err)
		}
		return nil, &StoreWriteError{Op: "create", OrderID: orderID, Err: err}
	}
	return flag, nil
}

func (r *vatRepository) Update(ctx context.Context, flag *model.VatFlag) error {
	res := GetDB(ctx, r.db).
		Model(&model.VatFlag{}).
		Where("id_vat17 = ?", flag.ID).
		Update("is_vat_17", flag.IsVat17)
	if res.Error != nil {
		return &StoreWriteError{Op: "update", OrderID: flag.OrderID, RecordID: flag.ID, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &StoreWriteError{Op: "update", OrderID: flag.OrderID, RecordID: flag.ID, Err: ErrVatFlagNotFound}
	}
	return nil
}

func (r *vatRepository) DeleteByOrder(ctx context.Context, orderID uint) (int64, error) {
	res := GetDB(ctx, r.db).Where("id_order = ?", orderID).Delete(&model.VatFlag{})
	if res.Error != nil {
		return 0, &StoreWriteError{Op: "delete", OrderID: orderID, Err: res.Error}
	}
	return res.RowsAffected, nil
}

// DeleteOrphans removes rows whose order no longer exists
func (r *vatRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	res := GetDB(ctx, r.db).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.id_order = order17vat.id_order)").
		Delete(&model.VatFlag{})
	if res.Error != nil {
		return 0, &StoreWriteError{Op: "sweep", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func (r *vatRepository) CountByOrder(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.VatFlag{}).Where("id_order = ?", orderID).Count(&count).Error
	return count, err
}

func (r *vatRepository) InstallTable(ctx context.Context) error {
	return GetDB(ctx, r.db).AutoMigrate(&model.VatFlag{})
}

func (r *vatRepository) DropTable(ctx context.Context) error {
	return GetDB(ctx, r.db).Migrator().DropTable(&model.VatFlag{})
}
