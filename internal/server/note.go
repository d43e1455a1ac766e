package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	notedomain "github.com/smallbiznis/relaycrm/internal/note/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type createNoteRequest struct {
	Content   string `json:"content"`
	CompanyID string `json:"company_id"`
	ContactID string `json:"contact_id"`
	DealID    string `json:"deal_id"`
}

func (s *Server) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.noteSvc.Create(c.Request.Context(), c.GetString(contextUserIDKey), notedomain.CreateNoteRequest{
		Content:   req.Content,
		CompanyID: strings.TrimSpace(req.CompanyID),
		ContactID: strings.TrimSpace(req.ContactID),
		DealID:    strings.TrimSpace(req.DealID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListNotes(c *gin.Context) {
	var query struct {
		pagination.Params
		Search    string `form:"search"`
		AuthorID  string `form:"authorId"`
		CompanyID string `form:"companyId"`
		ContactID string `form:"contactId"`
		DealID    string `form:"dealId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.noteSvc.List(c.Request.Context(), notedomain.ListNoteRequest{
		Params:    query.Params,
		Search:    strings.TrimSpace(query.Search),
		AuthorID:  strings.TrimSpace(query.AuthorID),
		CompanyID: strings.TrimSpace(query.CompanyID),
		ContactID: strings.TrimSpace(query.ContactID),
		DealID:    strings.TrimSpace(query.DealID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetNoteByID(c *gin.Context) {
	resp, err := s.noteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type updateNoteRequest struct {
	Content   *string `json:"content"`
	CompanyID *string `json:"company_id"`
	ContactID *string `json:"contact_id"`
	DealID    *string `json:"deal_id"`
}

func (s *Server) UpdateNote(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.noteSvc.Update(c.Request.Context(), c.GetString(contextUserIDKey), c.Param("id"), notedomain.UpdateNoteRequest{
		Content:   req.Content,
		CompanyID: req.CompanyID,
		ContactID: req.ContactID,
		DealID:    req.DealID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteNote(c *gin.Context) {
	if err := s.noteSvc.Delete(c.Request.Context(), c.GetString(contextUserIDKey), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

func (s *Server) GetNoteStats(c *gin.Context) {
	resp, err := s.noteSvc.GetStats(c.Request.Context(), strings.TrimSpace(c.Query("userId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isNoteValidationError(err error) bool {
	switch err {
	case notedomain.ErrInvalidID,
		notedomain.ErrInvalidContent:
		return true
	default:
		return false
	}
}
