package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

// StatsService derives attendance reports from the in-memory state. All
// aggregation runs over deep copies of the attendance store, so report math
// is a pure function of the snapshot it reads.
type StatsService struct {
	state  *store.AppState
	cache  *CacheService
	logger *zap.Logger
}

// NewStatsService constructs the aggregator.
func NewStatsService(state *store.AppState, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{state: state, cache: cache, logger: logger}
}

// BimesterReport builds the per-student report for one class over one term.
// Percentage counts excused absences as attendance: (present+excused)/total.
// A student with no marked cells in the period reports 0%.
func (s *StatsService) BimesterReport(ctx context.Context, classID, bimesterID string) (*dto.BimesterReport, error) {
	bim, ok := s.bimester(bimesterID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "bimester not found")
	}
	if _, ok := s.state.Class(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	cacheKey := fmt.Sprintf("reports:bimester:%s:%s", classID, bimesterID)
	if s.cache.Enabled() {
		var cached dto.BimesterReport
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	attendance := s.state.AttendanceAll()
	report := &dto.BimesterReport{
		BimesterID: bim.ID,
		Name:       bim.Name,
		Start:      bim.Start,
		End:        bim.End,
		Students:   make([]dto.StudentPeriodStats, 0),
	}

	var pctSum float64
	var counted int
	for _, student := range s.state.StudentsByClass(classID) {
		counts := periodCounts(attendance[student.ID], bim.Start, bim.End)
		pct := reportPercentage(counts)
		report.Students = append(report.Students, dto.StudentPeriodStats{
			StudentID:  student.ID,
			Name:       student.Name,
			Enrollment: student.Enrollment,
			Counts:     counts,
			Percentage: pct,
			Risk:       models.ClassifyRisk(pct),
		})
		if counts.Total > 0 {
			pctSum += pct
			counted++
		}
	}
	if counted > 0 {
		report.ClassAverage = round1(pctSum / float64(counted))
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, report, 0)
	}
	return report, nil
}

// ClassMonth builds the month summary grid for one class. Month is YYYY-MM.
// The grid uses a different denominator convention from period reports: the
// percentage divides by max(total, 1) and the display column shows "-" when
// no lessons were held at all.
func (s *StatsService) ClassMonth(ctx context.Context, classID, month string) (*dto.ClassMonthSummary, error) {
	if !validMonth(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be YYYY-MM")
	}
	if _, ok := s.state.Class(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	cacheKey := fmt.Sprintf("reports:month:%s:%s", classID, month)
	if s.cache.Enabled() {
		var cached dto.ClassMonthSummary
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	attendance := s.state.AttendanceAll()
	summary := &dto.ClassMonthSummary{
		ClassID: classID,
		Month:   month,
		Rows:    make([]dto.MonthlyStudentRow, 0),
	}
	prefix := month + "-"
	for _, student := range s.state.StudentsByClass(classID) {
		var counts dto.AttendanceCounts
		for date, statuses := range attendance[student.ID] {
			if !strings.HasPrefix(date, prefix) {
				continue
			}
			accumulate(&counts, statuses)
		}
		denominator := counts.Total
		if denominator == 0 {
			denominator = 1
		}
		pct := round1(float64(counts.Present+counts.Excused) / float64(denominator) * 100)
		display := fmt.Sprintf("%.1f%%", pct)
		if counts.Total == 0 {
			display = "-"
		}
		summary.Rows = append(summary.Rows, dto.MonthlyStudentRow{
			StudentID:      student.ID,
			Name:           student.Name,
			Counts:         counts,
			TotalLessons:   counts.Total,
			Percentage:     pct,
			PercentDisplay: display,
		})
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, summary, 0)
	}
	return summary, nil
}

// SubjectReport aggregates marked cells of one class by resolved subject
// name, restricted to one bimester when bimesterID is set and annual
// otherwise. Cells whose slot resolves to no subject fall into the
// unspecified bucket. Only present counts in the numerator: an excused
// absence still means the student missed that subject's lesson.
func (s *StatsService) SubjectReport(ctx context.Context, classID, bimesterID string) ([]dto.SubjectStats, error) {
	if _, ok := s.state.Class(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	var start, end string
	period := "annual"
	if bimesterID != "" {
		bim, ok := s.bimester(bimesterID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bimester not found")
		}
		start, end = bim.Start, bim.End
		period = bim.ID
	}

	cacheKey := fmt.Sprintf("reports:subjects:%s:%s", classID, period)
	if s.cache.Enabled() {
		var cached []dto.SubjectStats
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached, nil
		}
	}

	attendance := s.state.AttendanceAll()
	buckets := make(map[string]*dto.SubjectStats)
	for _, student := range s.state.StudentsByClass(classID) {
		for date, statuses := range attendance[student.ID] {
			if start != "" && date < start {
				continue
			}
			if end != "" && date > end {
				continue
			}
			for idx, status := range statuses {
				if !status.Marked() {
					continue
				}
				subject := s.state.Lessons.Subject(classID, date, idx)
				if subject == "" {
					subject = models.SubjectUnspecified
				}
				bucket, ok := buckets[subject]
				if !ok {
					bucket = &dto.SubjectStats{Subject: subject}
					buckets[subject] = bucket
				}
				bucket.Total++
				if status == models.AttendancePresent {
					bucket.Present++
				}
			}
		}
	}

	out := make([]dto.SubjectStats, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Total > 0 {
			bucket.Percentage = round1(float64(bucket.Present) / float64(bucket.Total) * 100)
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, out, 0)
	}
	return out, nil
}

// AtRisk lists active students across all classes whose annual attendance
// sits below the critical threshold, worst first. Students with no marked
// cells are excluded rather than reported as 0%.
func (s *StatsService) AtRisk(ctx context.Context) ([]dto.RankedStudent, error) {
	ranked := s.rankStudents(func(student models.Student, counts dto.AttendanceCounts, pct float64) bool {
		return student.Enrollment == models.EnrollmentActive && counts.Total > 0 && pct < 75
	})
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage < ranked[j].Percentage
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked, nil
}

// TopPerformers lists the highest annual attendance percentages among
// active students, best first, capped at limit.
func (s *StatsService) TopPerformers(ctx context.Context, limit int) ([]dto.RankedStudent, error) {
	if limit <= 0 {
		limit = 10
	}
	ranked := s.rankStudents(func(student models.Student, counts dto.AttendanceCounts, pct float64) bool {
		return student.Enrollment == models.EnrollmentActive && counts.Total > 0
	})
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage > ranked[j].Percentage
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *StatsService) bimester(id string) (models.Bimester, bool) {
	for _, b := range s.state.Bimesters() {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bimester{}, false
}

func (s *StatsService) rankStudents(keep func(models.Student, dto.AttendanceCounts, float64) bool) []dto.RankedStudent {
	attendance := s.state.AttendanceAll()
	out := make([]dto.RankedStudent, 0)
	for _, student := range s.state.Students() {
		counts := periodCounts(attendance[student.ID], "", "")
		pct := reportPercentage(counts)
		if !keep(student, counts, pct) {
			continue
		}
		entry := dto.RankedStudent{
			StudentID:  student.ID,
			Name:       student.Name,
			ClassID:    student.ClassID,
			Counts:     counts,
			Percentage: pct,
			Risk:       models.ClassifyRisk(pct),
		}
		if class, ok := s.state.Class(student.ClassID); ok {
			entry.ClassName = class.Name
		}
		out = append(out, entry)
	}
	return out
}

// periodCounts tallies marked cells inside [start, end]. Empty bounds mean
// the whole year.
func periodCounts(days map[string][]models.AttendanceStatus, start, end string) dto.AttendanceCounts {
	var counts dto.AttendanceCounts
	for date, statuses := range days {
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		accumulate(&counts, statuses)
	}
	return counts
}

func accumulate(counts *dto.AttendanceCounts, statuses []models.AttendanceStatus) {
	for _, status := range statuses {
		switch status {
		case models.AttendancePresent:
			counts.Present++
		case models.AttendanceAbsent:
			counts.Absent++
		case models.AttendanceExcused:
			counts.Excused++
		default:
			continue
		}
		counts.Total++
	}
}

// reportPercentage is the period-report convention: excused counts as
// attendance, zero marked cells reads as 0%.
func reportPercentage(counts dto.AttendanceCounts) float64 {
	if counts.Total == 0 {
		return 0
	}
	return round1(float64(counts.Present+counts.Excused) / float64(counts.Total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func validMonth(month string) bool {
	if len(month) != 7 || month[4] != '-' {
		return false
	}
	for i, r := range month {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
