package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	pkgerrors "uniguide/backend/pkg/errors"
)

// newMockRepository returns a Repository backed by in-memory mocks. It has
// no db, so Transaction runs the callback directly.
func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		students:  newMockStudentRepo(),
		unis:      newMockUniversityRepo(),
		shortlist: newMockShortlistRepo(),
		locked:    newMockLockedRepo(),
		tasks:     newMockTaskRepo(),
	}
	return &repository.Repository{
		Student:    m.students,
		University: m.unis,
		Shortlist:  m.shortlist,
		Locked:     m.locked,
		Task:       m.tasks,
	}, m
}

type mocks struct {
	students  *mockStudentRepo
	unis      *mockUniversityRepo
	shortlist *mockShortlistRepo
	locked    *mockLockedRepo
	tasks     *mockTaskRepo
}

func pairKey(studentID, universityID string) string { return studentID + "|" + universityID }

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	// stageConflicts makes the next N UpdateStage calls lose the version race.
	stageConflicts int
	stageWrites    int
	// beforeStageWrite runs once, ahead of the next UpdateStage.
	beforeStageWrite func()
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) add(s *model.Student) *model.Student {
	if s.StudentID == "" {
		s.StudentID = fmt.Sprintf("stu-%d", len(m.students)+1)
	}
	if s.CurrentStage == 0 {
		s.CurrentStage = model.StageBuildingProfile
	}
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Role == "" {
		s.Role = model.RoleStudent
	}
	m.students[s.StudentID] = s
	return s
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	for _, existing := range m.students {
		if existing.Email == s.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.add(s)
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	stored, ok := m.students[s.StudentID]
	if !ok || stored.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := *s
	m.students[s.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) UpdateStage(_ context.Context, id string, stage, version int) error {
	if hook := m.beforeStageWrite; hook != nil {
		m.beforeStageWrite = nil
		hook()
	}
	stored, ok := m.students[id]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	if m.stageConflicts > 0 {
		m.stageConflicts--
		stored.Version++ // a concurrent writer got there first
		return pkgerrors.ErrOptimisticLock
	}
	if stored.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.CurrentStage = stage
	stored.Version++
	m.stageWrites++
	return nil
}

// ── Mock UniversityRepository ──

type mockUniversityRepo struct {
	unis map[string]model.University
}

func newMockUniversityRepo() *mockUniversityRepo {
	return &mockUniversityRepo{unis: make(map[string]model.University)}
}

func (m *mockUniversityRepo) GetByID(_ context.Context, id string) (*model.University, error) {
	if u, ok := m.unis[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUniversityRepo) List(_ context.Context, q repository.UniversityQuery) ([]model.University, error) {
	var out []model.University
	for _, u := range m.unis {
		if len(q.Countries) > 0 {
			match := false
			for _, c := range q.Countries {
				if strings.EqualFold(c, u.Country) {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if q.MaxTuition != nil && u.TuitionFee > *q.MaxTuition {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockUniversityRepo) SearchByName(_ context.Context, query string, limit int) ([]model.University, error) {
	var out []model.University
	for _, u := range m.unis {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockUniversityRepo) Upsert(_ context.Context, unis []model.University) (int64, error) {
	for _, u := range unis {
		m.unis[u.UniversityID] = u
	}
	return int64(len(unis)), nil
}

func (m *mockUniversityRepo) InsertMissing(_ context.Context, unis []model.University) (int64, error) {
	var n int64
	for _, u := range unis {
		if _, ok := m.unis[u.UniversityID]; ok {
			continue
		}
		m.unis[u.UniversityID] = u
		n++
	}
	return n, nil
}

func (m *mockUniversityRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.unis)), nil
}

// ── Mock ShortlistRepository ──

type mockShortlistRepo struct {
	entries map[string]*model.ShortlistEntry
	seq     int
}

func newMockShortlistRepo() *mockShortlistRepo {
	return &mockShortlistRepo{entries: make(map[string]*model.ShortlistEntry)}
}

func (m *mockShortlistRepo) Create(_ context.Context, e *model.ShortlistEntry) error {
	key := pairKey(e.StudentID, e.UniversityID)
	if _, ok := m.entries[key]; ok {
		return pkgerrors.ErrDuplicate
	}
	m.seq++
	e.ID = fmt.Sprintf("sl-%d", m.seq)
	e.AddedAt = time.Now()
	cp := *e
	m.entries[key] = &cp
	return nil
}

func (m *mockShortlistRepo) Get(_ context.Context, studentID, universityID string) (*model.ShortlistEntry, error) {
	if e, ok := m.entries[pairKey(studentID, universityID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShortlistRepo) ListByStudent(_ context.Context, studentID string) ([]model.ShortlistEntry, error) {
	var out []model.ShortlistEntry
	for _, e := range m.entries {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockShortlistRepo) UpdateCategory(_ context.Context, studentID, universityID string, c model.Category) error {
	e, ok := m.entries[pairKey(studentID, universityID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Category = c
	return nil
}

func (m *mockShortlistRepo) Delete(_ context.Context, studentID, universityID string) (int64, error) {
	key := pairKey(studentID, universityID)
	if _, ok := m.entries[key]; !ok {
		return 0, nil
	}
	delete(m.entries, key)
	return 1, nil
}

func (m *mockShortlistRepo) CountByStudent(_ context.Context, studentID string) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

// ── Mock LockedRepository ──

type mockLockedRepo struct {
	entries map[string]*model.LockedEntry
	seq     int
}

func newMockLockedRepo() *mockLockedRepo {
	return &mockLockedRepo{entries: make(map[string]*model.LockedEntry)}
}

func (m *mockLockedRepo) Create(_ context.Context, e *model.LockedEntry) error {
	key := pairKey(e.StudentID, e.UniversityID)
	if _, ok := m.entries[key]; ok {
		return pkgerrors.ErrDuplicate
	}
	m.seq++
	e.ID = fmt.Sprintf("lk-%d", m.seq)
	e.LockedAt = time.Now()
	cp := *e
	m.entries[key] = &cp
	return nil
}

func (m *mockLockedRepo) Get(_ context.Context, studentID, universityID string) (*model.LockedEntry, error) {
	if e, ok := m.entries[pairKey(studentID, universityID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLockedRepo) ListByStudent(_ context.Context, studentID string) ([]model.LockedEntry, error) {
	var out []model.LockedEntry
	for _, e := range m.entries {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockLockedRepo) Delete(_ context.Context, studentID, universityID string) (int64, error) {
	key := pairKey(studentID, universityID)
	if _, ok := m.entries[key]; !ok {
		return 0, nil
	}
	delete(m.entries, key)
	return 1, nil
}

func (m *mockLockedRepo) CountByStudent(_ context.Context, studentID string) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
	seq   int
	// createErr fails every insert when set.
	createErr error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, t *model.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if t.TaskID == "" {
		t.TaskID = fmt.Sprintf("task-%d", m.seq)
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Category == "" {
		t.Category = model.TaskGeneral
	}
	t.SetCompleted(t.Completed, time.Now())
	t.CreatedAt = time.Now()
	cp := *t
	m.tasks[t.TaskID] = &cp
	return nil
}

func (m *mockTaskRepo) CreateBatch(ctx context.Context, tasks []model.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	for i := range tasks {
		if err := m.Create(ctx, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, studentID, taskID string) (*model.Task, error) {
	if t, ok := m.tasks[taskID]; ok && t.StudentID == studentID {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByStudent(_ context.Context, studentID string, f repository.TaskFilter) ([]model.Task, error) {
	var out []model.Task
	for _, t := range m.tasks {
		if t.StudentID != studentID {
			continue
		}
		if f.UniversityID != nil && (t.UniversityID == nil || *t.UniversityID != *f.UniversityID) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, t *model.Task) error {
	cp := *t
	m.tasks[t.TaskID] = &cp
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, studentID, taskID string) (int64, error) {
	if t, ok := m.tasks[taskID]; ok && t.StudentID == studentID {
		delete(m.tasks, taskID)
		return 1, nil
	}
	return 0, nil
}

func (m *mockTaskRepo) DeleteByUniversity(_ context.Context, studentID, universityID string) (int64, error) {
	var n int64
	for id, t := range m.tasks {
		if t.StudentID == studentID && t.UniversityID != nil && *t.UniversityID == universityID {
			delete(m.tasks, id)
			n++
		}
	}
	return n, nil
}

func (m *mockTaskRepo) CountByStudentAndUniversity(_ context.Context, studentID, universityID string) (int64, error) {
	var n int64
	for _, t := range m.tasks {
		if t.StudentID == studentID && t.UniversityID != nil && *t.UniversityID == universityID {
			n++
		}
	}
	return n, nil
}

// ── Mock directory.Client ──

type mockDirectory struct {
	byCountry map[string][]model.University
	err       error
	lookup    *model.University
	calls     []string
}

func (m *mockDirectory) ByCountry(_ context.Context, c string) ([]model.University, error) {
	m.calls = append(m.calls, "country:"+c)
	if m.err != nil {
		return nil, m.err
	}
	return m.byCountry[c], nil
}

func (m *mockDirectory) Search(_ context.Context, q string) ([]model.University, error) {
	m.calls = append(m.calls, "search:"+q)
	if m.err != nil {
		return nil, m.err
	}
	var out []model.University
	for _, list := range m.byCountry {
		for _, u := range list {
			if strings.Contains(strings.ToLower(u.Name), strings.ToLower(q)) {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (m *mockDirectory) Lookup(_ context.Context, name, c string) (*model.University, error) {
	m.calls = append(m.calls, "lookup:"+name+"|"+c)
	if m.err != nil {
		return nil, m.err
	}
	return m.lookup, nil
}

func (m *mockDirectory) ForCountries(_ context.Context, countries []string, perCountry int) ([]model.University, error) {
	m.calls = append(m.calls, "for:"+strings.Join(countries, ","))
	if m.err != nil {
		return nil, m.err
	}
	out := []model.University{}
	for _, c := range countries {
		list := m.byCountry[c]
		if perCountry > 0 && len(list) > perCountry {
			list = list[:perCountry]
		}
		out = append(out, list...)
	}
	return out, nil
}

// ── Recording EventPublisher ──

type recordingPublisher struct {
	events []SelectionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _, value []byte) error {
	if p.err != nil {
		return p.err
	}
	var ev SelectionEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	p.events = append(p.events, ev)
	return nil
}

// ── fixtures ──

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func testUniversity(id, name, countryName string, acceptance float64, tuition float64, minGPA float64) model.University {
	return model.University{
		UniversityID:      id,
		Name:              name,
		Country:           countryName,
		AcceptanceRate:    f64(acceptance),
		TuitionFee:        tuition,
		LivingCostPerYear: 10000,
		Programs: []model.Program{{
			Name:           "MS Computer Science",
			Degree:         "masters",
			Field:          "Computer Science",
			TuitionPerYear: f64(tuition),
			Requirements:   model.ProgramRequirements{MinGPA: f64(minGPA)},
		}},
	}
}

func repositoryFilterFor(universityID string) repository.TaskFilter {
	return repository.TaskFilter{UniversityID: &universityID}
}
