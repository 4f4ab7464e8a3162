package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"sporcu-lisans-takip/pkg/db/pagination"
	"sporcu-lisans-takip/pkg/errutil"
	"sporcu-lisans-takip/pkg/middleware"
	"sporcu-lisans-takip/pkg/sequence"
	"sporcu-lisans-takip/services/license"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type LicenseHandler struct {
	svc   *license.Service
	query *license.Query
	now   func() time.Time
}

type LicenseHandlerParams struct {
	fx.In
	Service *license.Service
	Query   *license.Query
}

func NewLicenseHandler(p LicenseHandlerParams) *LicenseHandler {
	return &LicenseHandler{
		svc:   p.Service,
		query: p.Query,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// translate maps the lifecycle sentinels onto transport errors. BaseError
// values pass through untouched.
func translate(err error) error {
	switch {
	case errors.Is(err, license.ErrNotFound):
		return errutil.NotFound("license not found", errutil.WithErr(err))
	case errors.Is(err, license.ErrReferenceNotFound):
		return errutil.UnprocessableEntity(err.Error(), errutil.WithErr(err))
	case errors.Is(err, license.ErrInvalidTransition):
		return errutil.Conflict(err.Error(), errutil.WithErr(err))
	case errors.Is(err, sequence.ErrExhausted):
		return errutil.Conflict(err.Error(), errutil.WithErr(err))
	default:
		return err
	}
}

func (h *LicenseHandler) Issue(c *gin.Context) {
	var req issueLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	lic, err := h.svc.Issue(c.Request.Context(), license.IssueRequest{
		AthleteID:         req.AthleteID,
		SportID:           req.SportID,
		LicenseTypeID:     req.LicenseTypeID,
		LicenseCategoryID: req.LicenseCategoryID,
		Notes:             req.Notes,
		ActorID:           middleware.ActorID(c),
	})
	if err != nil {
		c.Error(translate(err))
		return
	}

	c.JSON(http.StatusCreated, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) List(c *gin.Context) {
	// ?number= is a point lookup, ?athlete_id= and ?sport_id= are filters;
	// the bare list is cursor paginated.
	if number := c.Query("number"); number != "" {
		lic, err := h.query.GetByNumber(c.Request.Context(), number)
		if err != nil {
			c.Error(translate(err))
			return
		}
		c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
		return
	}

	if athleteID := c.Query("athlete_id"); athleteID != "" {
		list, err := h.query.ByAthlete(c.Request.Context(), athleteID)
		if err != nil {
			c.Error(translate(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": toLicenseResponses(list, h.now())})
		return
	}

	if sportID := c.Query("sport_id"); sportID != "" {
		list, err := h.query.BySport(c.Request.Context(), sportID)
		if err != nil {
			c.Error(translate(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": toLicenseResponses(list, h.now())})
		return
	}

	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.Error(errutil.BadRequest("invalid pagination params", errutil.WithErr(err)))
		return
	}

	list, pageInfo, err := h.query.List(c.Request.Context(), p)
	if err != nil {
		c.Error(translate(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      toLicenseResponses(list, h.now()),
		"page_info": pageInfo,
	})
}

func (h *LicenseHandler) Get(c *gin.Context) {
	lic, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) Renew(c *gin.Context) {
	// Body is optional on renew: notes only.
	var req renewLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	lic, err := h.svc.Renew(c.Request.Context(), c.Param("id"), req.Notes, middleware.ActorID(c))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) Suspend(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	lic, err := h.svc.Suspend(c.Request.Context(), c.Param("id"), req.Reason, middleware.ActorID(c))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) Cancel(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	lic, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason, middleware.ActorID(c))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) UpdateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	lic, err := h.svc.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes, middleware.ActorID(c))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic, h.now()))
}

func (h *LicenseHandler) Purge(c *gin.Context) {
	if err := h.svc.Purge(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		c.Error(translate(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LicenseHandler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toHistoryResponses(entries)})
}

func (h *LicenseHandler) Expired(c *gin.Context) {
	list, err := h.query.Expired(c.Request.Context())
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toLicenseResponses(list, h.now())})
}

func (h *LicenseHandler) ExpiringSoon(c *gin.Context) {
	list, err := h.query.ExpiringSoon(c.Request.Context())
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toLicenseResponses(list, h.now())})
}

func (h *LicenseHandler) Statistics(c *gin.Context) {
	stats, err := h.query.Statistics(c.Request.Context())
	if err != nil {
		c.Error(translate(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}
