package workflow

import (
	"errors"
	"fmt"
	"time"

	"naebak/internal/models"
	"naebak/internal/storage"
)

// memStore is an in-memory storage.Store for workflow tests. It mirrors the
// constraints that matter to the workflow: the not-found sentinel and the
// unique point-log index.
type memStore struct {
	complaints map[uint]*models.Complaint
	actions    []models.ComplaintAction
	votes      []models.ComplaintVote
	profiles   map[uint]*models.DeputyProfile
	perms      map[uint]*models.ManagerPermission
	pointLogs  []models.PointLog
	failCredit bool
	nextID     uint
}

func newMemStore() *memStore {
	return &memStore{
		complaints: make(map[uint]*models.Complaint),
		profiles:   make(map[uint]*models.DeputyProfile),
		perms:      make(map[uint]*models.ManagerPermission),
		nextID:     1,
	}
}

func (m *memStore) addComplaint(c models.Complaint) *models.Complaint {
	c.ID = m.nextID
	m.nextID++
	if c.Ref == "" {
		c.Ref = fmt.Sprintf("ref-%d", c.ID)
	}
	m.complaints[c.ID] = &c
	return &c
}

func (m *memStore) addDeputy(userID uint) {
	m.profiles[userID] = &models.DeputyProfile{UserID: userID}
}

func (m *memStore) InTransaction(fn func(storage.Store) error) error {
	return fn(m)
}

func (m *memStore) ComplaintByID(id uint) (*models.Complaint, error) {
	c, ok := m.complaints[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) ComplaintByRef(ref string) (*models.Complaint, error) {
	for _, c := range m.complaints {
		if c.Ref == ref {
			copied := *c
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpdateComplaint(id uint, fields map[string]interface{}) error {
	c, ok := m.complaints[id]
	if !ok {
		return storage.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			c.Status = v.(models.ComplaintStatus)
		case "priority":
			c.Priority = v.(models.ComplaintPriority)
		case "assigned_deputy_id":
			id := v.(uint)
			c.AssignedDeputyID = &id
		case "archived":
			c.Archived = v.(bool)
		case "admin_approved_public":
			c.AdminApprovedPublic = v.(bool)
		case "admin_forced_public":
			c.AdminForcedPublic = v.(bool)
		case "upvotes":
			c.Upvotes = int(v.(int64))
		case "downvotes":
			c.Downvotes = int(v.(int64))
		case "resolved_at":
			c.ResolvedAt = v.(*time.Time)
		default:
			return fmt.Errorf("memStore: unhandled field %q", k)
		}
	}
	return nil
}

func (m *memStore) AppendAction(a *models.ComplaintAction) error {
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	m.actions = append(m.actions, *a)
	return nil
}

func (m *memStore) ActionsForComplaint(complaintID uint) ([]models.ComplaintAction, error) {
	var out []models.ComplaintAction
	for _, a := range m.actions {
		if a.ComplaintID == complaintID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) VoteFor(complaintID uint, voterKey string, kind models.VoteKind) (*models.ComplaintVote, error) {
	for _, v := range m.votes {
		if v.ComplaintID == complaintID && v.VoterKey == voterKey && v.Kind == kind {
			copied := v
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) CreateVote(v *models.ComplaintVote) error {
	if _, err := m.VoteFor(v.ComplaintID, v.VoterKey, v.Kind); err == nil {
		return errors.New("duplicate vote row")
	}
	v.ID = m.nextID
	m.nextID++
	m.votes = append(m.votes, *v)
	return nil
}

func (m *memStore) DeleteVote(complaintID uint, voterKey string, kind models.VoteKind) error {
	kept := m.votes[:0]
	for _, v := range m.votes {
		if v.ComplaintID == complaintID && v.VoterKey == voterKey && v.Kind == kind {
			continue
		}
		kept = append(kept, v)
	}
	m.votes = kept
	return nil
}

func (m *memStore) CountVotes(complaintID uint, kind models.VoteKind) (int64, error) {
	var n int64
	for _, v := range m.votes {
		if v.ComplaintID == complaintID && v.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeputyProfileByUserID(userID uint) (*models.DeputyProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (m *memStore) CreditDeputyPoints(userID uint, complaintID uint, amount int, action string) error {
	if m.failCredit {
		return errors.New("credit failed")
	}
	for _, l := range m.pointLogs {
		if l.ComplaintID != nil && *l.ComplaintID == complaintID && l.Action == action {
			return errors.New("duplicate point award")
		}
	}
	p, ok := m.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	m.pointLogs = append(m.pointLogs, models.PointLog{
		UserID:      userID,
		ComplaintID: &complaintID,
		Amount:      amount,
		Action:      action,
	})
	p.Points += amount
	p.ResolvedCount++
	return nil
}

func (m *memStore) ManagerPermissionsFor(userID uint) (*models.ManagerPermission, error) {
	p, ok := m.perms[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

// memNotifier records sends for assertions.
type memNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	UserID uint
	Type   models.NotificationType
	Title  string
	Ref    string
}

func (n *memNotifier) Send(userID uint, ntype models.NotificationType, title, message, complaintRef string) {
	n.sent = append(n.sent, sentNotification{UserID: userID, Type: ntype, Title: title, Ref: complaintRef})
}

// memInvalidator records invalidated paths.
type memInvalidator struct {
	paths []string
}

func (i *memInvalidator) Invalidate(path string)         { i.paths = append(i.paths, path) }
func (i *memInvalidator) InvalidatePrefix(prefix string) { i.paths = append(i.paths, prefix) }
