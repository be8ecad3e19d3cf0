package workflow

import (
	"errors"

	"naebak/internal/identity"
	"naebak/internal/models"
	"naebak/internal/storage"
)

// VoteResult carries the authoritative post-write counts, re-read from the
// ledger inside the same transaction as the toggle.
type VoteResult struct {
	Voted     bool // true when the actor now holds a vote of the given kind
	Upvotes   int64
	Downvotes int64
}

// ToggleVote flips the (complaint, actor, kind) presence row: present rows
// are deleted, absent rows are inserted. Up and down votes are mutually
// exclusive per actor, so inserting one kind removes the other. Anonymous
// actors are keyed by their resolved IP, which keeps repeated toggles from
// the same visitor idempotent.
func (s *Service) ToggleVote(complaintID uint, kind models.VoteKind, actor identity.Actor) (*VoteResult, error) {
	if !kind.Valid() {
		return nil, validationf("نوع التصويت غير صحيح")
	}
	voterKey := actor.Key()

	var ref string
	result := &VoteResult{}
	err := s.store.InTransaction(func(tx storage.Store) error {
		complaint, err := tx.ComplaintByID(complaintID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return notFound("الشكوى غير موجودة")
			}
			return internal("تعذر تحميل الشكوى", err)
		}
		if complaint.Archived {
			return preconditionf("لا يمكن التصويت على شكوى مؤرشفة")
		}
		ref = complaint.Ref

		_, err = tx.VoteFor(complaintID, voterKey, kind)
		switch {
		case err == nil:
			// Second toggle: un-vote.
			if err := tx.DeleteVote(complaintID, voterKey, kind); err != nil {
				return internal("تعذر إلغاء التصويت", err)
			}
			result.Voted = false
		case errors.Is(err, storage.ErrNotFound):
			// First toggle: vote, dropping any opposite-kind row.
			if err := tx.DeleteVote(complaintID, voterKey, opposite(kind)); err != nil {
				return internal("تعذر تسجيل التصويت", err)
			}
			if err := tx.CreateVote(&models.ComplaintVote{
				ComplaintID: complaintID,
				VoterKey:    voterKey,
				Kind:        kind,
			}); err != nil {
				return internal("تعذر تسجيل التصويت", err)
			}
			result.Voted = true
		default:
			return internal("تعذر قراءة سجل التصويت", err)
		}

		up, err := tx.CountVotes(complaintID, models.VoteUp)
		if err != nil {
			return internal("تعذر إحصاء الأصوات", err)
		}
		down, err := tx.CountVotes(complaintID, models.VoteDown)
		if err != nil {
			return internal("تعذر إحصاء الأصوات", err)
		}
		result.Upvotes, result.Downvotes = up, down

		// Persist the counters for cheap list rendering; the ledger stays the
		// source of truth.
		return tx.UpdateComplaint(complaintID, map[string]interface{}{
			"upvotes":   up,
			"downvotes": down,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidatePrefix("/complaints")
		s.cache.Invalidate("/c/" + ref)
	}
	return result, nil
}

func opposite(kind models.VoteKind) models.VoteKind {
	if kind == models.VoteUp {
		return models.VoteDown
	}
	return models.VoteUp
}
