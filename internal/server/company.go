package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type createCompanyRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Size     string `json:"size"`
	Status   string `json:"status"`
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.Create(c.Request.Context(), companydomain.CreateCompanyRequest{
		Name:     strings.TrimSpace(req.Name),
		Industry: strings.TrimSpace(req.Industry),
		Website:  strings.TrimSpace(req.Website),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Address:  strings.TrimSpace(req.Address),
		Size:     companydomain.Size(strings.TrimSpace(req.Size)),
		Status:   companydomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListCompanies(c *gin.Context) {
	var query struct {
		pagination.Params
		Search   string `form:"search"`
		Status   string `form:"status"`
		Industry string `form:"industry"`
		Size     string `form:"size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.List(c.Request.Context(), companydomain.ListCompanyRequest{
		Params:   query.Params,
		Search:   strings.TrimSpace(query.Search),
		Status:   companydomain.Status(strings.TrimSpace(query.Status)),
		Industry: strings.TrimSpace(query.Industry),
		Size:     companydomain.Size(strings.TrimSpace(query.Size)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	resp, err := s.companySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type updateCompanyRequest struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	Website  *string `json:"website"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Size     *string `json:"size"`
	Status   *string `json:"status"`
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := companydomain.UpdateCompanyRequest{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}
	if req.Size != nil {
		size := companydomain.Size(strings.TrimSpace(*req.Size))
		update.Size = &size
	}
	if req.Status != nil {
		status := companydomain.Status(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	resp, err := s.companySvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	if err := s.companySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}

func (s *Server) GetCompanyStats(c *gin.Context) {
	resp, err := s.companySvc.GetStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isCompanyValidationError(err error) bool {
	switch err {
	case companydomain.ErrInvalidID,
		companydomain.ErrInvalidName,
		companydomain.ErrInvalidSize,
		companydomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
