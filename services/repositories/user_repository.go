package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
)

type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) Create(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	if err := ds.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ds *UserRepository) UpdateLastLogin(id string) error {
	return ds.db.Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", time.Now()).Error
}

func (ds *UserRepository) UpdateRole(id, role string) (*model.User, error) {
	if err := ds.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role).Error; err != nil {
		return nil, err
	}
	return ds.GetByID(id)
}

func (ds *UserRepository) Delete(id string) error {
	return ds.db.Where("id = ?", id).Delete(&model.User{}).Error
}

func (ds *UserRepository) List(page, limit int, search string) ([]model.User, int64, error) {
	query := ds.db.Model(&model.User{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var users []model.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (ds *UserRepository) Count() (int64, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Count(&count).Error
	return count, err
}
