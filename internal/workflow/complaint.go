package workflow

import (
	"errors"
	"fmt"
	"time"

	"naebak/internal/identity"
	"naebak/internal/models"
	"naebak/internal/storage"
)

// StatusResult is returned by UpdateStatus; Warning is set on partial success.
type StatusResult struct {
	Complaint *models.Complaint
	Warning   string
}

// UpdateStatus validates and applies a status transition, appending one audit
// entry in the same transaction. The citizen is notified afterwards;
// notification failure never fails the transition.
func (s *Service) UpdateStatus(complaintID uint, newStatus models.ComplaintStatus, actor identity.Actor, comment string) (*StatusResult, error) {
	if !newStatus.Valid() {
		return nil, validationf("حالة الشكوى غير صحيحة")
	}
	if newStatus == models.StatusClosed {
		// Closure is a separate gated operation with its own preconditions.
		return nil, preconditionf("إغلاق الشكوى يتم من خلال عملية الإغلاق فقط")
	}
	if !actor.Is(models.RoleDeputy) && !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بتغيير حالة الشكوى")
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
			return preconditionf("لا يمكن تعديل شكوى مؤرشفة")
		}
		// A deputy may only act on complaints assigned to them.
		if actor.Is(models.RoleDeputy) && !actor.IsStaff() {
			if complaint.AssignedDeputyID == nil || *complaint.AssignedDeputyID != actor.UserID {
				return forbidden("هذه الشكوى غير مسندة إليك")
			}
		}
		if complaint.Status == newStatus {
			return validationf("الشكوى بالفعل في حالة %s", statusLabel(newStatus))
		}
		if !CanTransition(complaint.Status, newStatus, actor) {
			return validationf("لا يمكن نقل الشكوى من %s إلى %s",
				statusLabel(complaint.Status), statusLabel(newStatus))
		}

		fields := map[string]interface{}{"status": newStatus}
		if newStatus == models.StatusResolved {
			now := time.Now()
			fields["resolved_at"] = &now
		}
		if err := tx.UpdateComplaint(complaint.ID, fields); err != nil {
			return internal("تعذر تحديث حالة الشكوى", err)
		}
		action := models.ComplaintAction{
			ComplaintID: complaint.ID,
			Type:        actionTypeFor(newStatus),
			OldValue:    string(complaint.Status),
			NewValue:    string(newStatus),
			Comment:     comment,
			ActorKey:    actor.Key(),
		}
		if err := tx.AppendAction(&action); err != nil {
			return internal("تعذر تسجيل التغيير في سجل الشكوى", err)
		}
		complaint.Status = newStatus
		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Send(updated.CitizenID, models.NotificationStatusUpdate,
			"تحديث حالة الشكوى",
			fmt.Sprintf("تم تحديث حالة شكواك «%s» إلى: %s", updated.Title, statusLabel(updated.Status)),
			updated.Ref)
	}
	s.invalidateComplaintViews(updated.Ref)
	s.log.WithField("complaint", updated.Ref).
		WithField("status", updated.Status).
		WithField("actor", actor.Key()).
		Info("status updated")
	return &StatusResult{Complaint: updated}, nil
}

// UpdatePriority applies a priority change with its audit entry. No citizen
// notification for priority moves.
func (s *Service) UpdatePriority(complaintID uint, newPriority models.ComplaintPriority, actor identity.Actor) (*models.Complaint, error) {
	if !newPriority.Valid() {
		return nil, validationf("أولوية الشكوى غير صحيحة")
	}
	if !actor.Is(models.RoleDeputy) && !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بتغيير أولوية الشكوى")
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
			return preconditionf("لا يمكن تعديل شكوى مؤرشفة")
		}
		if complaint.Priority == newPriority {
			updated = complaint
			return nil
		}
		if err := tx.UpdateComplaint(complaint.ID, map[string]interface{}{"priority": newPriority}); err != nil {
			return internal("تعذر تحديث أولوية الشكوى", err)
		}
		action := models.ComplaintAction{
			ComplaintID: complaint.ID,
			Type:        models.ActionPriorityChange,
			OldValue:    string(complaint.Priority),
			NewValue:    string(newPriority),
			ActorKey:    actor.Key(),
		}
		if err := tx.AppendAction(&action); err != nil {
			return internal("تعذر تسجيل التغيير في سجل الشكوى", err)
		}
		complaint.Priority = newPriority
		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateComplaintViews(updated.Ref)
	return updated, nil
}

// statusLabel maps a status to its Arabic display name.
func statusLabel(s models.ComplaintStatus) string {
	switch s {
	case models.StatusNew:
		return "جديدة"
	case models.StatusAccepted:
		return "مقبولة"
	case models.StatusRejected:
		return "مرفوضة"
	case models.StatusInProgress:
		return "قيد المعالجة"
	case models.StatusResolved:
		return "تم الحل"
	case models.StatusUnableToResolve:
		return "تعذر الحل"
	case models.StatusOnHold:
		return "معلقة"
	case models.StatusClosed:
		return "مغلقة"
	}
	return string(s)
}

// StatusLabel is the exported form used by handlers and templates.
func StatusLabel(s models.ComplaintStatus) string { return statusLabel(s) }
