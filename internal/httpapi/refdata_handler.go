package httpapi

import (
	"net/http"
	"time"

	"sporcu-lisans-takip/pkg/errutil"
	"sporcu-lisans-takip/services/refdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type RefdataHandler struct {
	svc *refdata.Service
}

type RefdataHandlerParams struct {
	fx.In
	Service *refdata.Service
}

func NewRefdataHandler(p RefdataHandlerParams) *RefdataHandler {
	return &RefdataHandler{svc: p.Service}
}

type createAthleteRequest struct {
	FirstName string    `json:"first_name" binding:"required"`
	LastName  string    `json:"last_name" binding:"required"`
	BirthDate time.Time `json:"birth_date"`
	ClubID    string    `json:"club_id"`
}

func (h *RefdataHandler) CreateAthlete(c *gin.Context) {
	var req createAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	a, err := h.svc.CreateAthlete(c.Request.Context(), &refdata.Athlete{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		ClubID:    req.ClubID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *RefdataHandler) GetAthlete(c *gin.Context) {
	a, err := h.svc.GetAthlete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *RefdataHandler) ListAthletes(c *gin.Context) {
	list, err := h.svc.ListAthletes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *RefdataHandler) DeactivateAthlete(c *gin.Context) {
	if err := h.svc.DeactivateAthlete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createSportRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *RefdataHandler) CreateSport(c *gin.Context) {
	var req createSportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	s, err := h.svc.CreateSport(c.Request.Context(), &refdata.Sport{Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *RefdataHandler) ListSports(c *gin.Context) {
	list, err := h.svc.ListSports(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

type createClubRequest struct {
	Name string `json:"name" binding:"required"`
	City string `json:"city"`
}

func (h *RefdataHandler) CreateClub(c *gin.Context) {
	var req createClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	club, err := h.svc.CreateClub(c.Request.Context(), &refdata.Club{Name: req.Name, City: req.City})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *RefdataHandler) ListClubs(c *gin.Context) {
	list, err := h.svc.ListClubs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

type createLicenseTypeRequest struct {
	Name               string `json:"name" binding:"required"`
	ValidityPeriodDays int    `json:"validity_period_days" binding:"required"`
}

func (h *RefdataHandler) CreateLicenseType(c *gin.Context) {
	var req createLicenseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	t, err := h.svc.CreateLicenseType(c.Request.Context(), &refdata.LicenseType{
		Name:               req.Name,
		ValidityPeriodDays: req.ValidityPeriodDays,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *RefdataHandler) ListLicenseTypes(c *gin.Context) {
	list, err := h.svc.ListLicenseTypes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

type createLicenseCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *RefdataHandler) CreateLicenseCategory(c *gin.Context) {
	var req createLicenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	cat, err := h.svc.CreateLicenseCategory(c.Request.Context(), &refdata.LicenseCategory{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *RefdataHandler) ListLicenseCategories(c *gin.Context) {
	list, err := h.svc.ListLicenseCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
