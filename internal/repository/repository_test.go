package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uniguide/backend/internal/model"
	"uniguide/backend/internal/repository"
	pkgerrors "uniguide/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Setup
// ═══════════════════════════════════════════════════════════

func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.Student{},
		&model.University{},
		&model.ShortlistEntry{},
		&model.LockedEntry{},
		&model.Task{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return repository.NewRepository(db), db
}

func createStudent(t *testing.T, repo *repository.Repository, email string) *model.Student {
	t.Helper()
	s := &model.Student{FullName: "Test Student", Email: email, PasswordHash: "hash"}
	if err := repo.Student.Create(context.Background(), s); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func strp(v string) *string  { return &v }

// ═══════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════

func TestStudent_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "ana@example.com")

	if s.StudentID == "" || s.CurrentStage != model.StageBuildingProfile || s.Version != 1 {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	got, err := repo.Student.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.StudentID != s.StudentID || got.IELTSStatus != model.ExamNotStarted {
		t.Errorf("unexpected student %+v", got)
	}

	if _, err := repo.Student.GetByID(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestStudent_DuplicateEmail(t *testing.T) {
	repo, _ := newTestRepo(t)
	createStudent(t, repo, "dup@example.com")

	err := repo.Student.Create(context.Background(), &model.Student{FullName: "Other", Email: "dup@example.com", PasswordHash: "x"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestStudent_UpdateOptimisticLock(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "opt@example.com")

	first, _ := repo.Student.GetByID(ctx, s.StudentID)
	second, _ := repo.Student.GetByID(ctx, s.StudentID)

	first.GPA = f64(3.6)
	first.PreferredCountries = []string{"Canada"}
	if err := repo.Student.Update(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("expected version 2, got %d", first.Version)
	}

	second.Major = "Physics"
	err := repo.Student.Update(ctx, second)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("expected ErrOptimisticLock, got %v", err)
	}
	if second.Version != 1 {
		t.Errorf("version must be restored after conflict, got %d", second.Version)
	}

	stored, _ := repo.Student.GetByID(ctx, s.StudentID)
	if stored.GPA == nil || *stored.GPA != 3.6 || stored.Major != "" {
		t.Errorf("stale write leaked: %+v", stored)
	}
	if len(stored.PreferredCountries) != 1 || stored.PreferredCountries[0] != "Canada" {
		t.Errorf("countries not persisted: %v", stored.PreferredCountries)
	}
	if stored.Email != "opt@example.com" || stored.PasswordHash != "hash" {
		t.Error("credentials must not be touched by profile updates")
	}
}

func TestStudent_UpdateStage(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "stage@example.com")

	if err := repo.Student.UpdateStage(ctx, s.StudentID, model.StageFinalizing, 1); err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}
	if err := repo.Student.UpdateStage(ctx, s.StudentID, model.StagePreparing, 1); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("expected ErrOptimisticLock for stale version, got %v", err)
	}

	got, _ := repo.Student.GetByID(ctx, s.StudentID)
	if got.CurrentStage != model.StageFinalizing || got.Version != 2 {
		t.Errorf("expected stage 3 version 2, got stage %d version %d", got.CurrentStage, got.Version)
	}
}

// ═══════════════════════════════════════════════════════════
// Universities
// ═══════════════════════════════════════════════════════════

func uni(id, name, country string, ranking *int, tuition float64) model.University {
	return model.University{
		UniversityID: id,
		Name:         name,
		Country:      country,
		Ranking:      ranking,
		TuitionFee:   tuition,
		Programs:     []model.Program{{Name: "MS CS", Degree: "masters", Field: "Computer Science"}},
		Source:       model.SourceSeed,
	}
}

func TestUniversity_UpsertListSearch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seed := []model.University{
		uni("u1", "Alpha University", "Canada", intp(20), 30000),
		uni("u2", "Beta Institute", "Germany", nil, 0),
		uni("u3", "Gamma University", "Canada", intp(5), 45000),
	}
	n, err := repo.University.InsertMissing(ctx, seed)
	if err != nil || n != 3 {
		t.Fatalf("InsertMissing: n=%d err=%v", n, err)
	}

	// second seed inserts nothing
	n, err = repo.University.InsertMissing(ctx, seed)
	if err != nil || n != 0 {
		t.Fatalf("repeat InsertMissing: n=%d err=%v", n, err)
	}

	updated := uni("u1", "Alpha University", "Canada", intp(1), 31000)
	if _, err := repo.University.Upsert(ctx, []model.University{updated}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, _ := repo.University.GetByID(ctx, "u1")
	if got.TuitionFee != 31000 || got.Ranking == nil || *got.Ranking != 1 {
		t.Errorf("upsert did not replace record: %+v", got)
	}
	if len(got.Programs) != 1 || got.Programs[0].Field != "Computer Science" {
		t.Errorf("programs not round-tripped: %+v", got.Programs)
	}

	list, err := repo.University.List(ctx, repository.UniversityQuery{Countries: []string{"canada"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].UniversityID != "u1" || list[1].UniversityID != "u3" {
		t.Errorf("expected u1,u3 ordered by ranking, got %+v", list)
	}

	list, _ = repo.University.List(ctx, repository.UniversityQuery{MaxTuition: f64(35000)})
	if len(list) != 2 {
		t.Errorf("expected 2 under budget, got %d", len(list))
	}
	// unranked last
	if list[len(list)-1].UniversityID != "u2" {
		t.Errorf("expected unranked university last, got %s", list[len(list)-1].UniversityID)
	}

	found, _ := repo.University.SearchByName(ctx, "UNIVERSITY", 10)
	if len(found) != 2 {
		t.Errorf("expected case-insensitive search to match 2, got %d", len(found))
	}

	count, _ := repo.University.Count(ctx)
	if count != 3 {
		t.Errorf("expected 3 universities, got %d", count)
	}
}

// ═══════════════════════════════════════════════════════════
// Selections
// ═══════════════════════════════════════════════════════════

func TestShortlist_ConflictIsDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "sl@example.com")

	entry := &model.ShortlistEntry{StudentID: s.StudentID, UniversityID: "u1", Category: model.CategoryDream, UniversityName: "Alpha"}
	if err := repo.Shortlist.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	again := &model.ShortlistEntry{StudentID: s.StudentID, UniversityID: "u1", Category: model.CategorySafe}
	if err := repo.Shortlist.Create(ctx, again); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, _ := repo.Shortlist.Get(ctx, s.StudentID, "u1")
	if got.Category != model.CategoryDream {
		t.Errorf("duplicate must not overwrite, got %s", got.Category)
	}

	if err := repo.Shortlist.UpdateCategory(ctx, s.StudentID, "u1", model.CategoryTarget); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if err := repo.Shortlist.UpdateCategory(ctx, s.StudentID, "nope", model.CategoryTarget); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	n, _ := repo.Shortlist.Delete(ctx, s.StudentID, "u1")
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	n, _ = repo.Shortlist.Delete(ctx, s.StudentID, "u1")
	if n != 0 {
		t.Errorf("second delete should affect 0 rows, got %d", n)
	}
}

func TestLocked_ConflictIsDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "lk@example.com")

	if err := repo.Locked.Create(ctx, &model.LockedEntry{StudentID: s.StudentID, UniversityID: "u1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Locked.Create(ctx, &model.LockedEntry{StudentID: s.StudentID, UniversityID: "u1"}); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	n, _ := repo.Locked.CountByStudent(ctx, s.StudentID)
	if n != 1 {
		t.Errorf("expected 1 locked, got %d", n)
	}
}

// ═══════════════════════════════════════════════════════════
// Transactions
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "tx@example.com")

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Locked.Create(ctx, &model.LockedEntry{StudentID: s.StudentID, UniversityID: "u1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	n, _ := repo.Locked.CountByStudent(ctx, s.StudentID)
	if n != 0 {
		t.Errorf("rollback expected, found %d locked", n)
	}
}

func TestTransaction_Commit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "commit@example.com")

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Locked.Create(ctx, &model.LockedEntry{StudentID: s.StudentID, UniversityID: "u1"}); err != nil {
			return err
		}
		return txRepo.Student.UpdateStage(ctx, s.StudentID, model.StageFinalizing, s.Version)
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	got, _ := repo.Student.GetByID(ctx, s.StudentID)
	if got.CurrentStage != model.StageFinalizing {
		t.Errorf("expected stage 3, got %d", got.CurrentStage)
	}
}

// ═══════════════════════════════════════════════════════════
// Tasks
// ═══════════════════════════════════════════════════════════

func TestTask_ListOrderAndFilters(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	s := createStudent(t, repo, "task@example.com")

	base := time.Now().Add(-time.Hour)
	tasks := []model.Task{
		{StudentID: s.StudentID, Title: "low", Priority: model.PriorityLow},
		{StudentID: s.StudentID, Title: "high-old", Priority: model.PriorityHigh, UniversityID: strp("u1")},
		{StudentID: s.StudentID, Title: "medium", Priority: model.PriorityMedium, Completed: true},
		{StudentID: s.StudentID, Title: "high-new", Priority: model.PriorityHigh, UniversityID: strp("u1")},
	}
	if err := repo.Task.CreateBatch(ctx, tasks); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	// deterministic created_at for the recency tie-break
	for i, title := range []string{"low", "high-old", "medium", "high-new"} {
		db.Model(&model.Task{}).Where("title = ?", title).Update("created_at", base.Add(time.Duration(i)*time.Minute))
	}

	list, err := repo.Task.ListByStudent(ctx, s.StudentID, repository.TaskFilter{})
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	want := []string{"high-new", "high-old", "medium", "low"}
	for i, w := range want {
		if list[i].Title != w {
			t.Fatalf("position %d: want %s, got %s", i, w, list[i].Title)
		}
	}
	if list[2].CompletedAt == nil {
		t.Error("completed task must carry completed_at")
	}

	done := false
	open, _ := repo.Task.ListByStudent(ctx, s.StudentID, repository.TaskFilter{Completed: &done})
	if len(open) != 3 {
		t.Errorf("expected 3 open tasks, got %d", len(open))
	}

	n, _ := repo.Task.CountByStudentAndUniversity(ctx, s.StudentID, "u1")
	if n != 2 {
		t.Errorf("expected 2 tasks for u1, got %d", n)
	}
	n, _ = repo.Task.DeleteByUniversity(ctx, s.StudentID, "u1")
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
}

func TestTask_GetScopedToStudent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	owner := createStudent(t, repo, "owner@example.com")
	other := createStudent(t, repo, "other@example.com")

	task := &model.Task{StudentID: owner.StudentID, Title: "mine"}
	if err := repo.Task.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Task.GetByID(ctx, other.StudentID, task.TaskID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("other student must not see the task, got %v", err)
	}
	n, _ := repo.Task.Delete(ctx, other.StudentID, task.TaskID)
	if n != 0 {
		t.Error("other student must not delete the task")
	}
}
