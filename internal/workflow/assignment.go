package workflow

import (
	"errors"
	"fmt"
	"strconv"

	"naebak/internal/identity"
	"naebak/internal/models"
	"naebak/internal/storage"
)

// Assign sets or changes the deputy responsible for a complaint. Reassignment
// is allowed; each call appends an assignment audit entry with the old and new
// deputy ids.
func (s *Service) Assign(complaintID uint, deputyUserID uint, actor identity.Actor) (*models.Complaint, error) {
	if !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بإسناد الشكاوى")
	}
	if err := s.requireManagerFlag(actor, flagAssign); err != nil {
		return nil, err
	}
	if _, err := s.store.DeputyProfileByUserID(deputyUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationf("النائب المحدد غير موجود")
		}
		return nil, internal("تعذر التحقق من بيانات النائب", err)
	}

	var updated *models.Complaint
	err := s.store.InTransaction(func(tx storage.Store) error {
		complaint, err := tx.ComplaintByID(complaintID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return notFound("الشكوى غير موجودة")
			}
			return internal("تعذر تحميل الشكوى", err)
		}
		if complaint.Archived {
			return preconditionf("لا يمكن إسناد شكوى مؤرشفة")
		}
		oldValue := ""
		if complaint.AssignedDeputyID != nil {
			oldValue = strconv.FormatUint(uint64(*complaint.AssignedDeputyID), 10)
		}
		if err := tx.UpdateComplaint(complaint.ID, map[string]interface{}{"assigned_deputy_id": deputyUserID}); err != nil {
			return internal("تعذر إسناد الشكوى", err)
		}
		action := models.ComplaintAction{
			ComplaintID: complaint.ID,
			Type:        models.ActionAssignment,
			OldValue:    oldValue,
			NewValue:    strconv.FormatUint(uint64(deputyUserID), 10),
			ActorKey:    actor.Key(),
		}
		if err := tx.AppendAction(&action); err != nil {
			return internal("تعذر تسجيل الإسناد في سجل الشكوى", err)
		}
		complaint.AssignedDeputyID = &deputyUserID
		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Send(deputyUserID, models.NotificationAssignment,
			"شكوى جديدة مسندة إليك",
			fmt.Sprintf("تم إسناد الشكوى «%s» إليك للمتابعة", updated.Title),
			updated.Ref)
	}
	s.invalidateComplaintViews(updated.Ref)
	s.log.WithField("complaint", updated.Ref).
		WithField("deputy", deputyUserID).
		Info("complaint assigned")
	return updated, nil
}

// Close finalizes a resolved complaint and credits the assigned deputy the
// fixed reward exactly once. If the credit fails after the status committed,
// the closure stands and the failure comes back as a warning; that partial
// success is deliberate.
func (s *Service) Close(complaintID uint, actor identity.Actor) (*StatusResult, error) {
	if !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بإغلاق الشكاوى")
	}
	if err := s.requireManagerFlag(actor, flagClose); err != nil {
		return nil, err
	}

	var updated *models.Complaint
	var deputyID uint
	err := s.store.InTransaction(func(tx storage.Store) error {
		complaint, err := tx.ComplaintByID(complaintID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return notFound("الشكوى غير موجودة")
			}
			return internal("تعذر تحميل الشكوى", err)
		}
		if complaint.Status != models.StatusResolved {
			return preconditionf("لا يمكن إغلاق الشكوى: يجب أن تكون حالتها «تم الحل» أولاً")
		}
		if complaint.AssignedDeputyID == nil {
			return preconditionf("لا يمكن إغلاق الشكوى: لا يوجد نائب مسند إليها")
		}
		deputyID = *complaint.AssignedDeputyID

		if err := tx.UpdateComplaint(complaint.ID, map[string]interface{}{"status": models.StatusClosed}); err != nil {
			return internal("تعذر إغلاق الشكوى", err)
		}
		action := models.ComplaintAction{
			ComplaintID: complaint.ID,
			Type:        models.ActionResolution,
			OldValue:    string(models.StatusResolved),
			NewValue:    string(models.StatusClosed),
			ActorKey:    actor.Key(),
		}
		if err := tx.AppendAction(&action); err != nil {
			return internal("تعذر تسجيل الإغلاق في سجل الشكوى", err)
		}
		complaint.Status = models.StatusClosed
		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Complaint: updated}
	if err := s.store.CreditDeputyPoints(deputyID, updated.ID, PointsComplaintClosed, ActionComplaintClosed); err != nil {
		// Closure already committed; surface the missing reward instead of
		// rolling back.
		result.Warning = "تم إغلاق الشكوى، لكن تعذر إضافة نقاط المكافأة للنائب"
		s.log.WithField("complaint", updated.Ref).
			WithField("deputy", deputyID).
			WithError(err).
			Warn("point credit failed after close")
	}

	if s.notify != nil {
		s.notify.Send(updated.CitizenID, models.NotificationStatusUpdate,
			"تم إغلاق شكواك",
			fmt.Sprintf("تم إغلاق الشكوى «%s» بعد حلها، شكراً لمشاركتك", updated.Title),
			updated.Ref)
	}
	s.invalidateComplaintViews(updated.Ref)
	return result, nil
}

// Archive is the manager soft-delete: the complaint disappears from active
// views but its rows stay untouched.
func (s *Service) Archive(complaintID uint, archived bool, actor identity.Actor) (*models.Complaint, error) {
	if !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بأرشفة الشكاوى")
	}
	if err := s.requireManagerFlag(actor, flagArchive); err != nil {
		return nil, err
	}

	complaint, err := s.store.ComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("الشكوى غير موجودة")
		}
		return nil, internal("تعذر تحميل الشكوى", err)
	}
	if err := s.store.UpdateComplaint(complaint.ID, map[string]interface{}{"archived": archived}); err != nil {
		return nil, internal("تعذر تحديث أرشفة الشكوى", err)
	}
	complaint.Archived = archived
	s.invalidateComplaintViews(complaint.Ref)
	return complaint, nil
}

type managerFlag int

const (
	flagAssign managerFlag = iota
	flagClose
	flagPublish
	flagArchive
)

// requireManagerFlag enforces the per-manager permission flags. Admins bypass
// them; a manager without a permission row has no flags at all.
func (s *Service) requireManagerFlag(actor identity.Actor, flag managerFlag) error {
	if actor.Is(models.RoleAdmin) {
		return nil
	}
	perm, err := s.store.ManagerPermissionsFor(actor.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return forbidden("ليست لديك الصلاحية المطلوبة لهذا الإجراء")
		}
		return internal("تعذر التحقق من الصلاحيات", err)
	}
	allowed := false
	switch flag {
	case flagAssign:
		allowed = perm.CanAssign
	case flagClose:
		allowed = perm.CanClose
	case flagPublish:
		allowed = perm.CanPublish
	case flagArchive:
		allowed = perm.CanArchive
	}
	if !allowed {
		return forbidden("ليست لديك الصلاحية المطلوبة لهذا الإجراء")
	}
	return nil
}
