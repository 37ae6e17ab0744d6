package adjustment

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/kidsbilling/adjustments/internal/utils"
	"github.com/kidsbilling/adjustments/pkg/access"
	"github.com/kidsbilling/adjustments/pkg/directory"
	log "github.com/sirupsen/logrus"
)

type Mode string

const (
	ModeView Mode = ""
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

const (
	MessageDeleted = "Row deleted successfully."
	MessageAdded   = "Row added successfully."
	MessageEdited  = "Row edited successfully."
)

// View is what the caller sees after one table request.
type View struct {
	Rows             []Record
	Mode             Mode
	EditIdx          *int
	Draft            *Record
	Message          string
	Centers          []string
	Center           string
	ChildrenByCenter map[string][]string
	ChildDetails     map[string]map[string]directory.Entry
}

type Service interface {
	View(ctx context.Context, acc access.Context) (View, error)
	BeginAdd(ctx context.Context, acc access.Context) (View, error)
	BeginEdit(ctx context.Context, acc access.Context, idx int) (View, error)
	Delete(ctx context.Context, acc access.Context, idx int) (View, error)
	SaveAdd(ctx context.Context, acc access.Context, fields Record) (View, error)
	SaveEdit(ctx context.Context, acc access.Context, idx int, fields Record) (View, error)
	Visible(ctx context.Context, acc access.Context) ([]Record, error)
}

type ServiceImpl struct {
	// mu serializes load-modify-save cycles within this process.
	mu        sync.Mutex
	store     Store
	directory directory.Loader
	ids       *IdGenerator
	clock     utils.Clock
}

func NewService(store Store, directory directory.Loader, ids *IdGenerator, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		store:     store,
		directory: directory,
		ids:       ids,
		clock:     clock,
	}
}

// Scope splits records into the rows the caller may see and the rows that must be
// preserved untouched on write. Both keep the store's order.
func Scope(records []Record, acc access.Context) (visible []Record, excluded []Record) {
	if acc.Unrestricted() {
		return slices.Clone(records), []Record{}
	}
	center := acc.EffectiveCenter()
	visible = make([]Record, 0, len(records))
	excluded = make([]Record, 0, len(records))
	for _, r := range records {
		if r.CenterName == center {
			visible = append(visible, r)
		} else {
			excluded = append(excluded, r)
		}
	}
	return visible, excluded
}

func (s *ServiceImpl) View(ctx context.Context, acc access.Context) (View, error) {
	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	visible, _ := Scope(all, acc)
	return s.view(acc, all, visible, dir), nil
}

func (s *ServiceImpl) Visible(ctx context.Context, acc access.Context) ([]Record, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	visible, _ := Scope(all, acc)
	return visible, nil
}

// BeginAdd prepares a draft for a new row. Nothing is persisted.
func (s *ServiceImpl) BeginAdd(ctx context.Context, acc access.Context) (View, error) {
	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	center := acc.EffectiveCenter()
	draft := Record{
		UID:        s.ids.Generate(identifiers(all)),
		Timestamp:  utils.Timestamp(s.clock),
		CenterName: center,
		ChildName:  dir.FirstChild(center),
	}
	fillDerived(&draft, dir, true)
	log.Debugf("prepared draft %s for center %q", draft.UID, center)

	visible, _ := Scope(all, acc)
	v := s.view(acc, all, visible, dir)
	v.Mode = ModeAdd
	v.Draft = &draft
	return v, nil
}

func (s *ServiceImpl) BeginEdit(ctx context.Context, acc access.Context, idx int) (View, error) {
	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	visible, _ := Scope(all, acc)
	if idx < 0 || idx >= len(visible) {
		return View{}, fmt.Errorf("edit index %d of %d rows: %w", idx, len(visible), ErrRowNotFound)
	}
	draft := visible[idx]

	v := s.view(acc, all, visible, dir)
	v.Mode = ModeEdit
	v.EditIdx = &idx
	v.Draft = &draft
	return v, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, acc access.Context, idx int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	visible, excluded := Scope(all, acc)
	if idx < 0 || idx >= len(visible) {
		return View{}, fmt.Errorf("delete index %d of %d rows: %w", idx, len(visible), ErrRowNotFound)
	}
	deleted := visible[idx]
	visible = slices.Delete(visible, idx, idx+1)

	updated := append(excluded, visible...)
	if err := s.store.Save(ctx, updated); err != nil {
		return View{}, err
	}
	log.Infof("deleted adjustment %s (center %q)", deleted.UID, deleted.CenterName)
	return s.refreshed(acc, updated, dir, MessageDeleted), nil
}

// SaveAdd appends a new row built from the submitted fields. The identifier, timestamp and
// directory-derived fields are always assigned here, never taken from the submission.
func (s *ServiceImpl) SaveAdd(ctx context.Context, acc access.Context, fields Record) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	record := fields
	record.UID = s.ids.Generate(identifiers(all))
	record.Timestamp = utils.Timestamp(s.clock)
	record.CenterName = writableCenter(acc, fields.CenterName)
	fillDerived(&record, dir, true)

	updated := append(all, record)
	if err := s.store.Save(ctx, updated); err != nil {
		return View{}, err
	}
	log.Infof("added adjustment %s (center %q, child %q)", record.UID, record.CenterName, record.ChildName)
	return s.refreshed(acc, updated, dir, MessageAdded), nil
}

// SaveEdit overwrites visible[idx] with the submitted fields, keeping its identifier.
func (s *ServiceImpl) SaveEdit(ctx context.Context, acc access.Context, idx int, fields Record) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, dir, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	visible, excluded := Scope(all, acc)
	if idx < 0 || idx >= len(visible) {
		return View{}, fmt.Errorf("edit index %d of %d rows: %w", idx, len(visible), ErrRowNotFound)
	}
	record := fields
	record.UID = visible[idx].UID
	record.Timestamp = utils.Timestamp(s.clock)
	if !acc.IsAdministrator {
		record.CenterName = acc.Center
	}
	fillDerived(&record, dir, false)
	visible[idx] = record

	updated := append(excluded, visible...)
	if err := s.store.Save(ctx, updated); err != nil {
		return View{}, err
	}
	log.Infof("edited adjustment %s (center %q)", record.UID, record.CenterName)
	return s.refreshed(acc, updated, dir, MessageEdited), nil
}

func (s *ServiceImpl) load(ctx context.Context) ([]Record, *directory.Directory, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	dir, err := s.directory.Load(ctx)
	if err != nil {
		return nil, nil, &StorageError{Op: "directory", Err: err}
	}
	return all, dir, nil
}

func (s *ServiceImpl) refreshed(acc access.Context, all []Record, dir *directory.Directory, message string) View {
	visible, _ := Scope(all, acc)
	v := s.view(acc, all, visible, dir)
	v.Message = message
	return v
}

func (s *ServiceImpl) view(acc access.Context, all []Record, visible []Record, dir *directory.Directory) View {
	center := acc.EffectiveCenter()
	if center == "" {
		center = acc.Center
	}
	return View{
		Rows:             visible,
		Mode:             ModeView,
		Centers:          centers(all, acc),
		Center:           center,
		ChildrenByCenter: dir.ChildrenByCenter(),
		ChildDetails:     dir.Details(),
	}
}

// writableCenter is the center a new row is written to: a center user always writes into
// their own center, an administrator falls back to the selected center.
func writableCenter(acc access.Context, submitted string) string {
	if !acc.IsAdministrator {
		return acc.Center
	}
	if submitted == "" {
		return acc.CenterOverride
	}
	return submitted
}

// fillDerived copies the directory's status fields for the record's (center, child).
// When the pair is unknown the fields are cleared if clearMissing is set, otherwise kept.
func fillDerived(r *Record, dir *directory.Directory, clearMissing bool) {
	entry, ok := dir.Lookup(r.CenterName, r.ChildName)
	if !ok && !clearMissing {
		return
	}
	r.ChildStatus = entry.ChildStatus
	r.FamilyStatus = entry.FamilyStatus
	r.BillingCycle = entry.BillingCycle
}

func centers(all []Record, acc access.Context) []string {
	if !acc.IsAdministrator {
		return []string{acc.Center}
	}
	seen := make(map[string]struct{}, 8)
	result := make([]string, 0, 8)
	for _, r := range all {
		if _, ok := seen[r.CenterName]; ok {
			continue
		}
		seen[r.CenterName] = struct{}{}
		result = append(result, r.CenterName)
	}
	sort.Strings(result)
	return result
}
