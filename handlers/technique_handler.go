package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tea-techniques-api/helper"
	"tea-techniques-api/models"
	"tea-techniques-api/services"
)

type TechniqueHandler struct {
	techniqueService services.TechniqueService
	Helper           *helper.HTTPHelper
}

func NewTechniqueHandler(techniqueService services.TechniqueService, h *helper.HTTPHelper) *TechniqueHandler {
	return &TechniqueHandler{techniqueService: techniqueService, Helper: h}
}

func (h *TechniqueHandler) List(c *gin.Context) {
	var params models.TechniqueListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendError(c, models.NewFieldError("query", err.Error()))
		return
	}

	techniques, total, err := h.techniqueService.List(c.Request.Context(), &params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	if techniques == nil {
		techniques = []models.Technique{}
	}

	h.Helper.SendList(c, params.Page, params.PageSize, total, techniques)
}

func (h *TechniqueHandler) Get(c *gin.Context) {
	id, apiErr := h.Helper.ParseID(c, "id")
	if apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return
	}

	technique, err := h.techniqueService.Get(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendData(c, http.StatusOK, technique)
}

func (h *TechniqueHandler) Create(c *gin.Context) {
	var rec models.TechniqueRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.Helper.SendError(c, models.NewFieldError("non_field_errors", "malformed request body: "+err.Error()))
		return
	}

	technique, err := h.techniqueService.Create(c.Request.Context(), &rec)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendData(c, http.StatusCreated, technique)
}

func (h *TechniqueHandler) Update(c *gin.Context) {
	id, apiErr := h.Helper.ParseID(c, "id")
	if apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return
	}

	var rec models.TechniqueRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.Helper.SendError(c, models.NewFieldError("non_field_errors", "malformed request body: "+err.Error()))
		return
	}

	technique, err := h.techniqueService.Update(c.Request.Context(), id, &rec)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendData(c, http.StatusOK, technique)
}

func (h *TechniqueHandler) PartialUpdate(c *gin.Context) {
	id, apiErr := h.Helper.ParseID(c, "id")
	if apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return
	}

	var rec models.TechniqueRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.Helper.SendError(c, models.NewFieldError("non_field_errors", "malformed request body: "+err.Error()))
		return
	}

	technique, err := h.techniqueService.PartialUpdate(c.Request.Context(), id, &rec)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendData(c, http.StatusOK, technique)
}

func (h *TechniqueHandler) Delete(c *gin.Context) {
	id, apiErr := h.Helper.ParseID(c, "id")
	if apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return
	}

	if err := h.techniqueService.Delete(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
