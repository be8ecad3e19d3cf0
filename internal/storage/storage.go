// Package storage is the persistence boundary of the complaint workflow. The
// Store interface is what the workflow service programs against; Service is
// the GORM/Postgres implementation.
package storage

import (
	"errors"

	"naebak/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

type Store interface {
	// InTransaction runs fn against a Store bound to a single database
	// transaction; any error rolls the whole sequence back.
	InTransaction(fn func(Store) error) error

	ComplaintByID(id uint) (*models.Complaint, error)
	ComplaintByRef(ref string) (*models.Complaint, error)
	UpdateComplaint(id uint, fields map[string]interface{}) error

	AppendAction(a *models.ComplaintAction) error
	ActionsForComplaint(complaintID uint) ([]models.ComplaintAction, error)

	VoteFor(complaintID uint, voterKey string, kind models.VoteKind) (*models.ComplaintVote, error)
	CreateVote(v *models.ComplaintVote) error
	DeleteVote(complaintID uint, voterKey string, kind models.VoteKind) error
	CountVotes(complaintID uint, kind models.VoteKind) (int64, error)

	DeputyProfileByUserID(userID uint) (*models.DeputyProfile, error)
	CreditDeputyPoints(userID uint, complaintID uint, amount int, action string) error

	ManagerPermissionsFor(userID uint) (*models.ManagerPermission, error)
}

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) InTransaction(fn func(Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx})
	})
}

func (s *Service) ComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.First(&complaint, id).Error; err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (s *Service) ComplaintByRef(ref string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (s *Service) UpdateComplaint(id uint, fields map[string]interface{}) error {
	return s.DB.Model(&models.Complaint{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Service) AppendAction(a *models.ComplaintAction) error {
	return s.DB.Create(a).Error
}

func (s *Service) ActionsForComplaint(complaintID uint) ([]models.ComplaintAction, error) {
	var actions []models.ComplaintAction
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

func (s *Service) VoteFor(complaintID uint, voterKey string, kind models.VoteKind) (*models.ComplaintVote, error) {
	var vote models.ComplaintVote
	err := s.DB.Where("complaint_id = ? AND voter_key = ? AND kind = ?", complaintID, voterKey, kind).
		First(&vote).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vote, nil
}

func (s *Service) CreateVote(v *models.ComplaintVote) error {
	return s.DB.Create(v).Error
}

func (s *Service) DeleteVote(complaintID uint, voterKey string, kind models.VoteKind) error {
	return s.DB.Where("complaint_id = ? AND voter_key = ? AND kind = ?", complaintID, voterKey, kind).
		Delete(&models.ComplaintVote{}).Error
}

func (s *Service) CountVotes(complaintID uint, kind models.VoteKind) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ComplaintVote{}).
		Where("complaint_id = ? AND kind = ?", complaintID, kind).
		Count(&count).Error
	return count, err
}

func (s *Service) DeputyProfileByUserID(userID uint) (*models.DeputyProfile, error) {
	var profile models.DeputyProfile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// CreditDeputyPoints writes the point log entry and bumps the profile balance
// and resolved counter in one transaction. The unique index on the log row
// makes a repeat credit for the same complaint fail instead of double-paying.
func (s *Service) CreditDeputyPoints(userID uint, complaintID uint, amount int, action string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		entry := models.PointLog{
			UserID:      userID,
			ComplaintID: &complaintID,
			Amount:      amount,
			Action:      action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.DeputyProfile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"points":         gorm.Expr("points + ?", amount),
				"resolved_count": gorm.Expr("resolved_count + 1"),
			}).Error
	})
}

func (s *Service) ManagerPermissionsFor(userID uint) (*models.ManagerPermission, error) {
	var perm models.ManagerPermission
	if err := s.DB.Where("user_id = ?", userID).First(&perm).Error; err != nil {
		return nil, translate(err)
	}
	return &perm, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
