package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/smallbiznis/relaycrm/internal/activity/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type createActivityRequest struct {
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID string     `json:"assigned_to_id"`
	CompanyID    string     `json:"company_id"`
	ContactID    string     `json:"contact_id"`
	DealID       string     `json:"deal_id"`
}

func (s *Server) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.activitySvc.Create(c.Request.Context(), activitydomain.CreateActivityRequest{
		Type:         activitydomain.Type(strings.TrimSpace(req.Type)),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Status:       activitydomain.Status(strings.TrimSpace(req.Status)),
		DueDate:      req.DueDate,
		AssignedToID: strings.TrimSpace(req.AssignedToID),
		CompanyID:    strings.TrimSpace(req.CompanyID),
		ContactID:    strings.TrimSpace(req.ContactID),
		DealID:       strings.TrimSpace(req.DealID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListActivities(c *gin.Context) {
	var query struct {
		pagination.Params
		Search       string `form:"search"`
		Type         string `form:"type"`
		Status       string `form:"status"`
		AssignedToID string `form:"assignedToId"`
		CompanyID    string `form:"companyId"`
		ContactID    string `form:"contactId"`
		DealID       string `form:"dealId"`
		Overdue      bool   `form:"overdue"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.activitySvc.List(c.Request.Context(), activitydomain.ListActivityRequest{
		Params:       query.Params,
		Search:       strings.TrimSpace(query.Search),
		Type:         activitydomain.Type(strings.TrimSpace(query.Type)),
		Status:       activitydomain.Status(strings.TrimSpace(query.Status)),
		AssignedToID: strings.TrimSpace(query.AssignedToID),
		CompanyID:    strings.TrimSpace(query.CompanyID),
		ContactID:    strings.TrimSpace(query.ContactID),
		DealID:       strings.TrimSpace(query.DealID),
		Overdue:      query.Overdue,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetActivityByID(c *gin.Context) {
	resp, err := s.activitySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type updateActivityRequest struct {
	Type         *string    `json:"type"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *string    `json:"assigned_to_id"`
	CompanyID    *string    `json:"company_id"`
	ContactID    *string    `json:"contact_id"`
	DealID       *string    `json:"deal_id"`
}

func (s *Server) UpdateActivity(c *gin.Context) {
	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := activitydomain.UpdateActivityRequest{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
		CompanyID:    req.CompanyID,
		ContactID:    req.ContactID,
		DealID:       req.DealID,
	}
	if req.Type != nil {
		typ := activitydomain.Type(strings.TrimSpace(*req.Type))
		update.Type = &typ
	}
	if req.Status != nil {
		status := activitydomain.Status(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	resp, err := s.activitySvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteActivity(c *gin.Context) {
	if err := s.activitySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "activity deleted"})
}

func (s *Server) GetUpcomingActivities(c *gin.Context) {
	var query struct {
		Days   int    `form:"days"`
		UserID string `form:"userId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.activitySvc.GetUpcoming(c.Request.Context(), activitydomain.UpcomingRequest{
		Days:         query.Days,
		AssignedToID: strings.TrimSpace(query.UserID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetActivityStats(c *gin.Context) {
	resp, err := s.activitySvc.GetStats(c.Request.Context(), strings.TrimSpace(c.Query("userId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isActivityValidationError(err error) bool {
	switch err {
	case activitydomain.ErrInvalidID,
		activitydomain.ErrInvalidType,
		activitydomain.ErrInvalidTitle,
		activitydomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
