package remote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// NormalizeDate converts an inbound date to ISO YYYY-MM-DD. The sheet holds
// a mix of DD-MM-YYYY, DD/MM/YYYY and ISO values.
func NormalizeDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty date")
	}
	trimmed = strings.ReplaceAll(trimmed, "/", "-")
	parts := strings.Split(trimmed, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("unrecognised date %q", raw)
	}
	if len(parts[0]) == 4 {
		// Already ISO ordered.
		return parts[0] + "-" + pad2(parts[1]) + "-" + pad2(parts[2]), nil
	}
	if len(parts[2]) != 4 {
		return "", fmt.Errorf("unrecognised date %q", raw)
	}
	return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0]), nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// FormatDateBR converts an ISO date to the DD-MM-YYYY wire form.
func FormatDateBR(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

// Normalize converts a raw payload into application shape: ISO dates,
// 0-based lesson slots, healed student rows, parsed configuration maps.
func Normalize(payload *DataPayload) *Dataset {
	ds := &Dataset{
		Attendance:    make(map[string]map[string][]models.AttendanceStatus),
		ActiveLessons: make(map[string][]int),
		Subjects:      make(map[string]map[int]string),
		Topics:        make(map[string]map[int]string),
	}
	if payload == nil {
		return ds
	}

	for _, wc := range payload.Classes {
		if wc.ID == "" {
			continue
		}
		ds.Classes = append(ds.Classes, models.ClassGroup{ID: wc.ID, Name: wc.Name})
	}

	for _, ws := range payload.Students {
		student, ok := healStudent(ws)
		if !ok {
			continue
		}
		ds.Students = append(ds.Students, student)
	}

	for _, rec := range payload.Attendance {
		iso, err := NormalizeDate(rec.Date)
		if err != nil || rec.StudentID == "" {
			continue
		}
		slot := rec.LessonIndex - 1
		if slot < 0 {
			continue
		}
		status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(rec.Status)))
		if !status.Marked() || !status.Valid() {
			continue
		}
		days, ok := ds.Attendance[rec.StudentID]
		if !ok {
			days = make(map[string][]models.AttendanceStatus)
			ds.Attendance[rec.StudentID] = days
		}
		statuses := days[iso]
		for len(statuses) <= slot {
			statuses = append(statuses, models.AttendanceUndefined)
		}
		statuses[slot] = status
		days[iso] = statuses
	}

	for _, wb := range payload.Bimesters {
		start, errStart := NormalizeDate(wb.Start)
		end, errEnd := NormalizeDate(wb.End)
		if errStart != nil || errEnd != nil {
			continue
		}
		ds.Bimesters = append(ds.Bimesters, models.Bimester{ID: wb.ID, Name: wb.Name, Start: start, End: end})
	}

	for _, row := range payload.Config {
		applyConfigRow(ds, row)
	}

	return ds
}

// healStudent recovers rows hit by the historical column shift: when the
// class field holds an enrollment-status spelling, the real class id lives
// in the registration field (prefixed "c-") and the real status in the
// shifted field.
func healStudent(ws WireStudent) (models.Student, bool) {
	if ws.ID == "" {
		return models.Student{}, false
	}

	classID := strings.TrimSpace(ws.Class)
	rawStatus := ws.Status
	if models.LooksLikeEnrollmentStatus(classID) {
		rawStatus = classID
		classID = ""
		if reg := strings.TrimSpace(ws.Registration); strings.HasPrefix(reg, "c-") {
			classID = reg
		}
	}

	return models.Student{
		ID:         ws.ID,
		Name:       ws.Name,
		ClassID:    classID,
		Enrollment: models.ParseEnrollmentStatus(rawStatus),
	}, true
}

func applyConfigRow(ds *Dataset, row WireConfigRow) {
	switch row.Key {
	case ConfigKeyLessonCounts:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal([]byte(row.Value), &raw); err != nil {
			return
		}
		for key, value := range raw {
			ds.ActiveLessons[normalizeLessonKey(key)] = parseLessonEntry(value)
		}
	case ConfigKeyLessonSubjects:
		ds.Subjects = parseSlotTextMap(row.Value)
	case ConfigKeyLessonTopics:
		ds.Topics = parseSlotTextMap(row.Value)
	case ConfigKeyRegisteredSubjects:
		var subjects []string
		if err := json.Unmarshal([]byte(row.Value), &subjects); err == nil {
			ds.RegisteredSubjects = subjects
		}
	case ConfigKeyHolidays:
		var holidays []models.Holiday
		if err := json.Unmarshal([]byte(row.Value), &holidays); err != nil {
			return
		}
		for _, h := range holidays {
			iso, err := NormalizeDate(h.Date)
			if err != nil {
				continue
			}
			ds.Holidays = append(ds.Holidays, models.Holiday{Date: iso, Name: h.Name})
		}
	}
}

// parseLessonEntry normalises an active-lessons value. Legacy rows stored a
// plain count N, which expands to [0..N-1]; modern rows store an explicit,
// possibly non-contiguous index list.
func parseLessonEntry(raw json.RawMessage) []int {
	var count int
	if err := json.Unmarshal(raw, &count); err == nil {
		if count <= 0 {
			return []int{}
		}
		indices := make([]int, count)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return []int{0}
	}
	kept := indices[:0]
	for _, idx := range indices {
		if idx >= 0 {
			kept = append(kept, idx)
		}
	}
	sort.Ints(kept)
	return kept
}

func parseSlotTextMap(value string) map[string]map[int]string {
	out := make(map[string]map[int]string)
	var raw map[string]map[string]string
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return out
	}
	for key, slots := range raw {
		entry := make(map[int]string, len(slots))
		for slotKey, text := range slots {
			slot, err := strconv.Atoi(slotKey)
			if err != nil || slot < 0 {
				continue
			}
			entry[slot] = text
		}
		out[normalizeLessonKey(key)] = entry
	}
	return out
}

// normalizeLessonKey rewrites the date part of a configuration key to ISO.
// Keys are either a bare date (legacy) or "{classId}_{date}".
func normalizeLessonKey(key string) string {
	if idx := strings.LastIndex(key, "_"); idx >= 0 {
		prefix, datePart := key[:idx], key[idx+1:]
		if iso, err := NormalizeDate(datePart); err == nil {
			return prefix + "_" + iso
		}
		return key
	}
	if iso, err := NormalizeDate(key); err == nil {
		return iso
	}
	return key
}

// BuildPayload converts a dataset back to wire shape, used for the offline
// snapshot and bulk saves. Attendance slices emit one row per marked cell
// with BR dates and 1-based lesson indices.
func BuildPayload(ds *Dataset) *DataPayload {
	payload := &DataPayload{}
	if ds == nil {
		return payload
	}

	for _, c := range ds.Classes {
		payload.Classes = append(payload.Classes, WireClass{ID: c.ID, Name: c.Name})
	}
	for _, st := range ds.Students {
		payload.Students = append(payload.Students, StudentToWire(st))
	}

	studentIDs := make([]string, 0, len(ds.Attendance))
	for studentID := range ds.Attendance {
		studentIDs = append(studentIDs, studentID)
	}
	sort.Strings(studentIDs)
	for _, studentID := range studentIDs {
		days := ds.Attendance[studentID]
		dates := make([]string, 0, len(days))
		for date := range days {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			for slot, status := range days[date] {
				if !status.Marked() {
					continue
				}
				payload.Attendance = append(payload.Attendance, WireAttendanceRecord{
					StudentID:   studentID,
					Date:        FormatDateBR(date),
					LessonIndex: slot + 1,
					Status:      string(status),
				})
			}
		}
	}

	for _, b := range ds.Bimesters {
		payload.Bimesters = append(payload.Bimesters, WireBimester{ID: b.ID, Name: b.Name, Start: b.Start, End: b.End})
	}

	payload.Config = BuildConfigRows(ds)
	return payload
}

// BuildConfigRows serialises the configuration maps into key/value rows.
func BuildConfigRows(ds *Dataset) []WireConfigRow {
	rows := make([]WireConfigRow, 0, 5)
	if value, err := json.Marshal(ds.ActiveLessons); err == nil {
		rows = append(rows, WireConfigRow{Key: ConfigKeyLessonCounts, Value: string(value)})
	}
	if value, err := json.Marshal(slotTextToWire(ds.Subjects)); err == nil {
		rows = append(rows, WireConfigRow{Key: ConfigKeyLessonSubjects, Value: string(value)})
	}
	if value, err := json.Marshal(slotTextToWire(ds.Topics)); err == nil {
		rows = append(rows, WireConfigRow{Key: ConfigKeyLessonTopics, Value: string(value)})
	}
	if value, err := json.Marshal(ds.RegisteredSubjects); err == nil {
		rows = append(rows, WireConfigRow{Key: ConfigKeyRegisteredSubjects, Value: string(value)})
	}
	if value, err := json.Marshal(ds.Holidays); err == nil {
		rows = append(rows, WireConfigRow{Key: ConfigKeyHolidays, Value: string(value)})
	}
	return rows
}

func slotTextToWire(m map[string]map[int]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(m))
	for key, slots := range m {
		entry := make(map[string]string, len(slots))
		for slot, text := range slots {
			entry[strconv.Itoa(slot)] = text
		}
		out[key] = entry
	}
	return out
}

// StudentToWire converts a roster entry for saving.
func StudentToWire(st models.Student) WireStudent {
	return WireStudent{
		ID:     st.ID,
		Name:   st.Name,
		Class:  st.ClassID,
		Status: string(st.Enrollment),
	}
}

// PendingToWire converts a queued edit into a batch record.
func PendingToWire(change models.PendingChange) WireAttendanceRecord {
	return WireAttendanceRecord{
		StudentID:   change.StudentID,
		Date:        FormatDateBR(change.Date),
		LessonIndex: change.LessonIndex + 1,
		Status:      string(change.Status),
		Subject:     change.Subject,
		Topic:       change.Topic,
	}
}
