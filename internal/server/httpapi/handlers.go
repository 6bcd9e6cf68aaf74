package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/waulty/internal/logging"
	"github.com/dmitrijs2005/waulty/internal/server/metrics"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

type handlers struct {
	svc    Services
	logger logging.Logger
}

// --- auth ---

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- users ---

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Users.Create(c.Request.Context(), models.NewUser{
		Email: req.Email, Name: req.Name, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Users.Update(c.Request.Context(), c.Param("id"), req.toModel(), req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.svc.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- systems ---

func (h *handlers) listSystems(c *gin.Context) {
	systems, err := h.svc.Systems.List(c.Request.Context(), claimsFrom(c), c.Query("showArchived") == "true")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, systems)
}

func (h *handlers) getSystem(c *gin.Context) {
	sys, err := h.svc.Systems.Get(c.Request.Context(), claimsFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sys)
}

func (h *handlers) createSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sys, err := h.svc.Systems.Create(c.Request.Context(), claimsFrom(c), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sys)
}

func (h *handlers) updateSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sys, err := h.svc.Systems.Update(c.Request.Context(), claimsFrom(c), c.Param("id"), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sys)
}

func (h *handlers) archiveSystem(c *gin.Context) {
	sys, err := h.svc.Systems.ToggleArchive(c.Request.Context(), claimsFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sys)
}

func (h *handlers) deleteSystem(c *gin.Context) {
	if err := h.svc.Systems.Delete(c.Request.Context(), claimsFrom(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- points ---

func (h *handlers) createPoint(c *gin.Context) {
	var req createPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Points.Create(c.Request.Context(), models.NewPoint{
		SystemID:    req.SystemID,
		MeetingID:   req.MeetingID,
		Title:       req.Title,
		Description: req.Description,
		Origin:      req.Origin,
		Priority:    req.Priority,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) updatePoint(c *gin.Context) {
	var req updatePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Points.Update(c.Request.Context(), c.Param("id"), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) deletePoint(c *gin.Context) {
	if err := h.svc.Points.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- actions ---

func (h *handlers) createAction(c *gin.Context) {
	var req createActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.Actions.Create(c.Request.Context(), models.NewAction{
		PointID:    req.PointID,
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		StartDate:  req.StartDate.ptr(),
		DueDate:    req.DueDate.ptr(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handlers) updateAction(c *gin.Context) {
	var req updateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.Actions.Update(c.Request.Context(), c.Param("id"), models.ActionUpdate{
		Status:      req.Status,
		Notes:       req.Notes,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate.ptr(),
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) listSystemActions(c *gin.Context) {
	actions, err := h.svc.Actions.ListOpenBySystem(c.Request.Context(), c.Param("systemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

// --- upgrades ---

func (h *handlers) createUpgrade(c *gin.Context) {
	var req createUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Upgrades.Create(c.Request.Context(), models.NewUpgrade{
		SystemID:    req.SystemID,
		Version:     req.Version,
		Title:       req.Title,
		Description: req.Description,
		PlannedDate: req.PlannedDate.ptr(),
		Downtime:    req.Downtime,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) updateUpgrade(c *gin.Context) {
	var req updateUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Upgrades.Update(c.Request.Context(), c.Param("id"), models.UpgradeUpdate{
		Version:     req.Version,
		Title:       req.Title,
		Description: req.Description,
		PlannedDate: req.PlannedDate.ptr(),
		Downtime:    req.Downtime,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) deleteUpgrade(c *gin.Context) {
	if err := h.svc.Upgrades.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- meetings ---

func (h *handlers) createMeeting(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.svc.Meetings.Create(c.Request.Context(), models.NewMeeting{
		SystemID: req.SystemID,
		Title:    req.Title,
		Date:     req.Date.Time,
		Agenda:   req.Agenda,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *handlers) getMeeting(c *gin.Context) {
	m, err := h.svc.Meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handlers) updateMeeting(c *gin.Context) {
	var req updateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.svc.Meetings.Update(c.Request.Context(), c.Param("id"), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handlers) deleteMeeting(c *gin.Context) {
	if err := h.svc.Meetings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- decisions ---

func (h *handlers) requestDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Decisions.Request(c.Request.Context(), req.ID, req.Type)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.RecordDecision("requested")
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getDecision(c *gin.Context) {
	data, err := h.svc.Decisions.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			metrics.RecordDecision("rejected_link")
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *handlers) submitDecision(c *gin.Context) {
	var req submitDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.Decisions.Submit(c.Request.Context(), c.Param("token"), req.Decision, req.Comment); err != nil {
		if statusFor(err) == http.StatusBadRequest {
			metrics.RecordDecision("rejected_link")
		}
		h.fail(c, err)
		return
	}
	metrics.RecordDecision("submitted")
	c.JSON(http.StatusOK, gin.H{"message": "decision recorded"})
}

// --- dashboard & export ---

func (h *handlers) dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard.Get(c.Request.Context(), claimsFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) exportEasit(c *gin.Context) {
	var req models.EasitExport
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Export.Export(c.Request.Context(), req)
	if err != nil {
		metrics.RecordExport("error")
		h.fail(c, err)
		return
	}
	metrics.RecordExport("ok")
	c.JSON(http.StatusOK, res)
}
