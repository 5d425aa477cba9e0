package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LiveClassRepository struct {
	DB *gorm.DB
}

func NewLiveClassRepository(db *gorm.DB) *LiveClassRepository {
	return &LiveClassRepository{DB: db}
}

func (r *LiveClassRepository) Create(lc *model.LiveClass) error {
	return r.DB.Create(lc).Error
}

func (r *LiveClassRepository) FindByID(id uint) (*model.LiveClass, error) {
	var lc model.LiveClass
	err := r.DB.First(&lc, id).Error
	return &lc, err
}

func (r *LiveClassRepository) Update(lc *model.LiveClass) error {
	return r.DB.Save(lc).Error
}

func (r *LiveClassRepository) Delete(id uint) error {
	return r.DB.Delete(&model.LiveClass{}, id).Error
}

func (r *LiveClassRepository) ListByCourse(courseID uint) ([]model.LiveClass, error) {
	var lcs []model.LiveClass
	err := r.DB.Where("course_id = ?", courseID).Order("scheduled_at asc").Find(&lcs).Error
	return lcs, err
}
