package workflow

import (
	"errors"

	"naebak/internal/identity"
	"naebak/internal/models"
	"naebak/internal/storage"
)

// VisibilityResult reports the new effective visibility after a gate change.
// ConsentMissing is set when an admin forced a complaint public without the
// citizen's opt-in; callers must surface that warning.
type VisibilityResult struct {
	Complaint      *models.Complaint
	EffectivePublic bool
	ConsentMissing bool
}

// ApproveForPublic records the admin decision on a citizen publish request.
// It refuses to act when the citizen never opted in.
func (s *Service) ApproveForPublic(complaintID uint, approved bool, actor identity.Actor) (*VisibilityResult, error) {
	if !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بإدارة نشر الشكاوى")
	}
	if err := s.requireManagerFlag(actor, flagPublish); err != nil {
		return nil, err
	}

	complaint, err := s.store.ComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("الشكوى غير موجودة")
		}
		return nil, internal("تعذر تحميل الشكوى", err)
	}
	if !complaint.CitizenRequestedPublic {
		return nil, preconditionf("لم يطلب المواطن نشر هذه الشكوى، لا يمكن الموافقة على النشر")
	}
	if err := s.store.UpdateComplaint(complaint.ID, map[string]interface{}{"admin_approved_public": approved}); err != nil {
		return nil, internal("تعذر تحديث حالة النشر", err)
	}
	complaint.AdminApprovedPublic = approved

	if approved && s.notify != nil {
		s.notify.Send(complaint.CitizenID, models.NotificationPublish,
			"تم نشر شكواك",
			"تمت الموافقة على نشر شكواك في لوحة الشكاوى العامة",
			complaint.Ref)
	}
	s.invalidateComplaintViews(complaint.Ref)
	return &VisibilityResult{
		Complaint:       complaint,
		EffectivePublic: complaint.IsPublic(),
	}, nil
}

// ForcePublic is the admin override: it flips visibility regardless of the
// citizen's consent. The capability is deliberate; the result flags the
// missing consent so the caller shows a warning wherever it is exercised.
func (s *Service) ForcePublic(complaintID uint, makePublic bool, actor identity.Actor) (*VisibilityResult, error) {
	if !actor.IsStaff() {
		return nil, forbidden("غير مسموح لك بإدارة نشر الشكاوى")
	}
	if err := s.requireManagerFlag(actor, flagPublish); err != nil {
		return nil, err
	}

	complaint, err := s.store.ComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("الشكوى غير موجودة")
		}
		return nil, internal("تعذر تحميل الشكوى", err)
	}
	if err := s.store.UpdateComplaint(complaint.ID, map[string]interface{}{"admin_forced_public": makePublic}); err != nil {
		return nil, internal("تعذر تحديث حالة النشر", err)
	}
	complaint.AdminForcedPublic = makePublic

	s.invalidateComplaintViews(complaint.Ref)
	s.log.WithField("complaint", complaint.Ref).
		WithField("forced_public", makePublic).
		WithField("actor", actor.Key()).
		Info("visibility override")
	return &VisibilityResult{
		Complaint:       complaint,
		EffectivePublic: complaint.IsPublic(),
		ConsentMissing:  makePublic && !complaint.CitizenRequestedPublic,
	}, nil
}
