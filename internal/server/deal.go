package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type createDealRequest struct {
	Title       string     `json:"title"`
	Value       float64    `json:"value"`
	Currency    string     `json:"currency"`
	Stage       string     `json:"stage"`
	Status      string     `json:"status"`
	Probability int        `json:"probability"`
	CloseDate   *time.Time `json:"close_date"`
	OwnerID     string     `json:"owner_id"`
	CompanyID   string     `json:"company_id"`
	ContactID   string     `json:"contact_id"`
}

func (s *Server) CreateDeal(c *gin.Context) {
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.dealSvc.Create(c.Request.Context(), dealdomain.CreateDealRequest{
		Title:       strings.TrimSpace(req.Title),
		Value:       req.Value,
		Currency:    strings.TrimSpace(req.Currency),
		Stage:       dealdomain.Stage(strings.TrimSpace(req.Stage)),
		Status:      dealdomain.Status(strings.TrimSpace(req.Status)),
		Probability: req.Probability,
		CloseDate:   req.CloseDate,
		OwnerID:     strings.TrimSpace(req.OwnerID),
		CompanyID:   strings.TrimSpace(req.CompanyID),
		ContactID:   strings.TrimSpace(req.ContactID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListDeals(c *gin.Context) {
	var query struct {
		pagination.Params
		Search    string `form:"search"`
		Stage     string `form:"stage"`
		Status    string `form:"status"`
		OwnerID   string `form:"ownerId"`
		CompanyID string `form:"companyId"`
		ContactID string `form:"contactId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.dealSvc.List(c.Request.Context(), dealdomain.ListDealRequest{
		Params:    query.Params,
		Search:    strings.TrimSpace(query.Search),
		Stage:     dealdomain.Stage(strings.TrimSpace(query.Stage)),
		Status:    dealdomain.Status(strings.TrimSpace(query.Status)),
		OwnerID:   strings.TrimSpace(query.OwnerID),
		CompanyID: strings.TrimSpace(query.CompanyID),
		ContactID: strings.TrimSpace(query.ContactID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetDealByID(c *gin.Context) {
	resp, err := s.dealSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type updateDealRequest struct {
	Title       *string    `json:"title"`
	Value       *float64   `json:"value"`
	Currency    *string    `json:"currency"`
	Stage       *string    `json:"stage"`
	Status      *string    `json:"status"`
	Probability *int       `json:"probability"`
	CloseDate   *time.Time `json:"close_date"`
	OwnerID     *string    `json:"owner_id"`
	CompanyID   *string    `json:"company_id"`
	ContactID   *string    `json:"contact_id"`
}

func (s *Server) UpdateDeal(c *gin.Context) {
	var req updateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := dealdomain.UpdateDealRequest{
		Title:       req.Title,
		Value:       req.Value,
		Currency:    req.Currency,
		Probability: req.Probability,
		CloseDate:   req.CloseDate,
		OwnerID:     req.OwnerID,
		CompanyID:   req.CompanyID,
		ContactID:   req.ContactID,
	}
	if req.Stage != nil {
		stage := dealdomain.Stage(strings.TrimSpace(*req.Stage))
		update.Stage = &stage
	}
	if req.Status != nil {
		status := dealdomain.Status(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	resp, err := s.dealSvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteDeal(c *gin.Context) {
	if err := s.dealSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deal deleted"})
}

func (s *Server) GetDealStats(c *gin.Context) {
	resp, err := s.dealSvc.GetStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetDealPipeline(c *gin.Context) {
	resp, err := s.dealSvc.GetPipeline(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isDealValidationError(err error) bool {
	switch err {
	case dealdomain.ErrInvalidID,
		dealdomain.ErrInvalidTitle,
		dealdomain.ErrInvalidValue,
		dealdomain.ErrInvalidStage,
		dealdomain.ErrInvalidStatus,
		dealdomain.ErrInvalidProbability:
		return true
	default:
		return false
	}
}
