package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/model"
	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var filter store.TaskFilter
	if v := r.URL.Query().Get("member_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "member_id must be an integer")
			return
		}
		filter.MemberID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	tasks, err := a.store.Tasks.List(r.Context(), claims.OrganizationID, filter)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type createTaskInput struct {
	MemberID int64    `json:"member_id"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in createTaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Title == "" || in.MemberID <= 0 {
		respondError(w, http.StatusBadRequest, "title and member_id are required")
		return
	}

	task, err := a.store.Tasks.Create(r.Context(), claims.OrganizationID, in.MemberID, in.Title, in.Tags)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "task_created", "task", &task.ID, audit.Detail("Title: "+task.Title))
	a.publish(claims.OrganizationID, "task_created", task)
	a.notifyAssignment(r.Context(), claims.UserID, task)
	writeJSON(w, http.StatusCreated, task)
}

// notifyAssignment leaves an in-app notification for the member a task was
// assigned to. Self-assignment is silent, and a notification failure never
// fails the mutation that triggered it.
func (a *API) notifyAssignment(ctx context.Context, actorID int64, task model.Task) {
	if task.MemberID == actorID {
		return
	}
	err := a.store.Notifications.Create(ctx, store.NewNotification{
		OrganizationID: task.OrganizationID,
		UserID:         task.MemberID,
		Title:          "Task assigned: " + task.Title,
		Category:       "task",
		TargetType:     strPtr("task"),
		TargetID:       &task.ID,
	})
	if err != nil {
		obs.LogError("notification create failed", err, map[string]any{"task_id": task.ID})
		return
	}
	a.publish(task.OrganizationID, "notification_created", map[string]any{
		"user_id": task.MemberID,
		"task_id": task.ID,
	})
}

func strPtr(s string) *string { return &s }

type updateTaskInput struct {
	MemberID     *int64   `json:"member_id"`
	Title        *string  `json:"title"`
	Status       *string  `json:"status"`
	ProgressRate *int64   `json:"progress_rate"`
	Tags         []string `json:"tags"`
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in updateTaskInput
	if !decodeJSON(w, r, &in) {
		return
	}

	task, err := a.store.Tasks.Update(r.Context(), id, claims.OrganizationID, store.TaskPatch{
		MemberID:     in.MemberID,
		Title:        in.Title,
		Status:       in.Status,
		ProgressRate: in.ProgressRate,
		Tags:         in.Tags,
	})
	if err != nil {
		respondStoreError(w, err, "task not found")
		return
	}

	a.recorder.Record(r.Context(), "task_updated", "task", &task.ID, audit.Detail("Title: "+task.Title))
	a.publish(claims.OrganizationID, "task_updated", task)
	if in.MemberID != nil {
		a.notifyAssignment(r.Context(), claims.UserID, task)
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.Tasks.Delete(r.Context(), id, claims.OrganizationID); err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "task_deleted", "task", &id, nil)
	a.publish(claims.OrganizationID, "task_deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

type addTimeLogInput struct {
	UserID  int64     `json:"user_id"`
	TaskID  *int64    `json:"task_id"`
	Title   *string   `json:"title"`
	Tags    []string  `json:"tags"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// handleAddTimeLog attaches an interval to an existing task, or creates the
// task on the fly when only a title is given.
func (a *API) handleAddTimeLog(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in addTimeLogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !in.EndAt.After(in.StartAt) {
		respondError(w, http.StatusBadRequest, "end_at must be after start_at")
		return
	}
	userID := in.UserID
	if userID == 0 {
		userID = claims.UserID
	}

	taskID := int64(0)
	switch {
	case in.TaskID != nil:
		task, err := a.store.Tasks.Get(r.Context(), *in.TaskID, claims.OrganizationID)
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		if task == nil {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}
		taskID = task.ID
	case in.Title != nil && *in.Title != "":
		task, err := a.store.Tasks.Create(r.Context(), claims.OrganizationID, userID, *in.Title, in.Tags)
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		taskID = task.ID
	default:
		respondError(w, http.StatusBadRequest, "task_id or title is required")
		return
	}

	logEntry, err := a.store.TimeLogs.Add(r.Context(), claims.OrganizationID, userID, taskID, in.StartAt, in.EndAt)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "time_log_added", "time_log", &logEntry.ID,
		audit.Detail(fmt.Sprintf("Task: %d, %d min", taskID, logEntry.DurationMinutes)))
	a.publish(claims.OrganizationID, "time_log_added", logEntry)
	writeJSON(w, http.StatusCreated, logEntry)
}

type updateTimeLogInput struct {
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
}

func (a *API) handleUpdateTimeLog(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in updateTimeLogInput
	if !decodeJSON(w, r, &in) {
		return
	}

	current, err := a.store.TimeLogs.Get(r.Context(), id, claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if current == nil {
		respondError(w, http.StatusNotFound, "time log not found")
		return
	}
	start, end := current.StartAt, current.EndAt
	if in.StartAt != nil {
		start = *in.StartAt
	}
	if in.EndAt != nil {
		end = *in.EndAt
	}
	if !end.After(start) {
		respondError(w, http.StatusBadRequest, "end_at must be after start_at")
		return
	}

	logEntry, err := a.store.TimeLogs.Update(r.Context(), id, claims.OrganizationID, in.StartAt, in.EndAt)
	if err != nil {
		respondStoreError(w, err, "time log not found")
		return
	}

	a.recorder.Record(r.Context(), "time_log_updated", "time_log", &id, nil)
	a.publish(claims.OrganizationID, "time_log_updated", logEntry)
	writeJSON(w, http.StatusOK, logEntry)
}

func (a *API) handleDeleteTimeLog(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.TimeLogs.Delete(r.Context(), id, claims.OrganizationID); err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "time_log_deleted", "time_log", &id, nil)
	a.publish(claims.OrganizationID, "time_log_deleted", map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTaskReport(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var filter store.ReportFilter
	q := r.URL.Query()
	if v := q.Get("member_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "member_id must be an integer")
			return
		}
		filter.MemberID = &id
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("statuses"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, s)
			}
		}
	}

	rows, err := a.store.Tasks.Report(r.Context(), claims.OrganizationID, filter)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if rows == nil {
		rows = []model.TaskReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
