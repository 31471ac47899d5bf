package user

import (
	"context"
	"errors"
	"time"

	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/repository/postgres/pgerr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) List(ctx context.Context, role string) ([]userdomain.User, error) {
	query := r.db.WithContext(ctx).Order("name asc, id asc")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []userdomain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	ensurePermissions(user)
	return userError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresRepository) UpsertByEmail(ctx context.Context, user *userdomain.User) error {
	ensurePermissions(user)
	updates := map[string]interface{}{
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"permissions":   user.Permissions,
		"updated_at":    time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(user).Error; err != nil {
		return err
	}

	stored, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *userdomain.User) error {
	ensurePermissions(user)
	return userError(r.db.WithContext(ctx).Omit("created_at").Save(user).Error)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&userdomain.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("email = ?", email)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CountOwnedSchedules(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("schedules").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func ensurePermissions(user *userdomain.User) {
	if user.Permissions == nil {
		user.Permissions = datatypes.JSONSlice[string]{}
	}
}

func userError(err error) error {
	if _, ok := pgerr.UniqueViolation(err); ok {
		return userdomain.ErrDuplicateEmail
	}
	return err
}
