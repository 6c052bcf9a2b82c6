package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"uniguide/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

const (
	sheetShortlist = "Shortlist"
	sheetLocked    = "Locked"
	sheetTasks     = "Tasks"
	timeLayout     = "2006-01-02"
)

// ExportService spreadsheet exports.
type ExportService interface {
	// ExportPlan writes the student's shortlist, locked universities and
	// tasks to an .xlsx workbook, returning it with a suggested filename.
	ExportPlan(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportPlan(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	student, err := loadStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, "", err
	}

	shortlisted, err := s.repo.Shortlist.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	locked, err := s.repo.Locked.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	tasks, err := s.repo.Task.ListByStudent(ctx, studentID, repository.TaskFilter{})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	shortRows := make([][]interface{}, 0, len(shortlisted))
	for _, e := range shortlisted {
		shortRows = append(shortRows, []interface{}{
			e.UniversityName, e.Country, e.City, string(e.Category),
			e.TuitionFee, e.LivingCostPerYear, e.AddedAt.Format(timeLayout),
		})
	}
	lockRows := make([][]interface{}, 0, len(locked))
	for _, e := range locked {
		lockRows = append(lockRows, []interface{}{e.UniversityName, e.Country, e.LockedAt.Format(timeLayout)})
	}
	taskRows := make([][]interface{}, 0, len(tasks))
	for _, t := range tasks {
		taskRows = append(taskRows, []interface{}{
			t.Title, deref(t.UniversityName), t.Priority, t.Category,
			formatDate(t.DueDate), yesNo(t.Completed), formatDate(t.CompletedAt),
		})
	}

	sheets := []struct {
		name    string
		headers []string
		widths  []float64
		rows    [][]interface{}
	}{
		{sheetShortlist, []string{"University", "Country", "City", "Category", "Tuition / year", "Living cost / year", "Added"},
			[]float64{40, 18, 18, 12, 16, 18, 14}, shortRows},
		{sheetLocked, []string{"University", "Country", "Locked"},
			[]float64{40, 18, 14}, lockRows},
		{sheetTasks, []string{"Task", "University", "Priority", "Category", "Due", "Done", "Completed"},
			[]float64{50, 36, 10, 14, 14, 8, 14}, taskRows},
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, "", s.generateFailed(err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, "", s.generateFailed(err)
		}

		for col, w := range sh.widths {
			name := colName(col)
			f.SetColWidth(sh.name, name, name, w)
		}
		for col, h := range sh.headers {
			f.SetCellValue(sh.name, cell(colName(col), 1), h)
		}
		f.SetCellStyle(sh.name, "A1", cell(colName(len(sh.headers)-1), 1), headerStyle)

		for r, row := range sh.rows {
			for col, v := range row {
				f.SetCellValue(sh.name, cell(colName(col), r+2), v)
			}
		}
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFailed(err)
	}

	filename := fmt.Sprintf("application_plan_%s_%s.xlsx", slug(student.FullName), time.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("write spreadsheet failed", zap.Error(err))
	return ErrExportGenerateFail
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return "student"
	}
	return strings.Join(fields, "_")
}
