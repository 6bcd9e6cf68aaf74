package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

// flexInt accepts a JSON number or a numeric string. null and "" leave it
// unset.
type flexInt struct {
	Set   bool
	Value int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		f.Set, f.Value = true, n
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.Set, f.Value = true, int(math.Trunc(n))
	return nil
}

func (f *flexInt) ptr() *int {
	if f == nil || !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// flexTime accepts RFC 3339 timestamps and plain dates (2006-01-02), which
// is what date pickers send. A blank string is treated as no date.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", time.DateOnly} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (t *flexTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type createUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Name     string      `json:"name" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"omitempty,enum"`
}

type updateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Role     *models.Role `json:"role" binding:"omitempty,enum"`
	IsActive *bool        `json:"isActive"`
	Password string       `json:"password"`
}

func (r updateUserRequest) toModel() models.UserUpdate {
	return models.UserUpdate{Name: r.Name, Email: r.Email, Role: r.Role, IsActive: r.IsActive}
}

type systemRequest struct {
	Name            *string              `json:"name"`
	Description     *string              `json:"description"`
	OwnerName       *string              `json:"ownerName"`
	OwnerEmail      *string              `json:"ownerEmail"`
	OwnerUsername   *string              `json:"ownerUsername"`
	ManagerName     *string              `json:"managerName"`
	ManagerUsername *string              `json:"managerUsername"`
	ResourceGroup   *string              `json:"resourceGroup"`
	Status          *models.SystemStatus `json:"status" binding:"omitempty,enum"`
}

func (r systemRequest) toModel() models.SystemFields {
	return models.SystemFields{
		Name:            r.Name,
		Description:     r.Description,
		OwnerName:       r.OwnerName,
		OwnerEmail:      r.OwnerEmail,
		OwnerUsername:   r.OwnerUsername,
		ManagerName:     r.ManagerName,
		ManagerUsername: r.ManagerUsername,
		ResourceGroup:   r.ResourceGroup,
		Status:          r.Status,
	}
}

type createPointRequest struct {
	SystemID    string          `json:"systemId" binding:"required"`
	MeetingID   *string         `json:"meetingId"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Origin      string          `json:"origin" binding:"required"`
	Priority    models.Priority `json:"priority" binding:"required,enum"`
}

type updatePointRequest struct {
	MeetingID      *string             `json:"meetingId"`
	Title          *string             `json:"title"`
	Description    *string             `json:"description"`
	Origin         *string             `json:"origin"`
	Priority       *models.Priority    `json:"priority" binding:"omitempty,enum"`
	Status         *models.PointStatus `json:"status" binding:"omitempty,enum"`
	Relevance      *flexInt            `json:"relevance"`
	Feasibility    *models.Feasibility `json:"feasibility" binding:"omitempty,enum"`
	Benefit        *string             `json:"benefit"`
	Risk           *string             `json:"risk"`
	CostEstimate   *string             `json:"costEstimate"`
	ManagerComment *string             `json:"managerComment"`
}

func (r updatePointRequest) toModel() models.PointUpdate {
	return models.PointUpdate{
		MeetingID:      r.MeetingID,
		Title:          r.Title,
		Description:    r.Description,
		Origin:         r.Origin,
		Priority:       r.Priority,
		Status:         r.Status,
		Relevance:      r.Relevance.ptr(),
		Feasibility:    r.Feasibility,
		Benefit:        r.Benefit,
		Risk:           r.Risk,
		CostEstimate:   r.CostEstimate,
		ManagerComment: r.ManagerComment,
	}
}

type createActionRequest struct {
	PointID    string    `json:"pointId" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	AssignedTo *string   `json:"assignedTo"`
	StartDate  *flexTime `json:"startDate"`
	DueDate    *flexTime `json:"dueDate"`
}

type updateActionRequest struct {
	Status      *models.ActionStatus `json:"status" binding:"omitempty,enum"`
	Notes       *string              `json:"notes"`
	AssignedTo  *string              `json:"assignedTo"`
	DueDate     *flexTime            `json:"dueDate"`
	Description *string              `json:"description"`
}

type createUpgradeRequest struct {
	SystemID    string    `json:"systemId" binding:"required"`
	Version     string    `json:"version" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	PlannedDate *flexTime `json:"plannedDate"`
	Downtime    bool      `json:"downtime"`
}

type updateUpgradeRequest struct {
	Version     *string               `json:"version"`
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	PlannedDate *flexTime             `json:"plannedDate"`
	Downtime    *bool                 `json:"downtime"`
	Status      *models.UpgradeStatus `json:"status" binding:"omitempty,enum"`
}

type createMeetingRequest struct {
	SystemID string   `json:"systemId" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Date     flexTime `json:"date"`
	Agenda   *string  `json:"agenda"`
}

type updateMeetingRequest struct {
	Title     *string   `json:"title"`
	Date      *flexTime `json:"date"`
	Agenda    *string   `json:"agenda"`
	Summary   *string   `json:"summary"`
	Attendees *[]string `json:"attendees"`
}

func (r updateMeetingRequest) toModel() models.MeetingUpdate {
	upd := models.MeetingUpdate{Title: r.Title, Date: r.Date.ptr(), Agenda: r.Agenda, Summary: r.Summary}
	if r.Attendees != nil {
		a := models.Attendees(*r.Attendees)
		upd.Attendees = &a
	}
	return upd
}

type decisionRequest struct {
	ID   string                `json:"id" binding:"required"`
	Type models.DecisionTarget `json:"type"`
}

type submitDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
}
