package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tea-techniques-api/helper"
	"tea-techniques-api/models"
	"tea-techniques-api/services"
)

type TaxonomyHandler struct {
	taxonomyService services.TaxonomyService
	Helper          *helper.HTTPHelper
}

func NewTaxonomyHandler(taxonomyService services.TaxonomyService, h *helper.HTTPHelper) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService, Helper: h}
}

func (h *TaxonomyHandler) bindListParams(c *gin.Context) (*models.ListParams, bool) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendError(c, models.NewFieldError("query", err.Error()))
		return nil, false
	}
	return &params, true
}

func sendListResult[T any](h *TaxonomyHandler, c *gin.Context, params *models.ListParams, items []T, total int64, err error) {
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.Helper.SendList(c, params.Page, params.PageSize, total, items)
}

func (h *TaxonomyHandler) ListAssuranceGoals(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	goals, total, err := h.taxonomyService.ListGoals(c.Request.Context(), params)
	sendListResult(h, c, params, goals, total, err)
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	categories, total, err := h.taxonomyService.ListCategories(c.Request.Context(), params)
	sendListResult(h, c, params, categories, total, err)
}

func (h *TaxonomyHandler) ListSubCategories(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	subcategories, total, err := h.taxonomyService.ListSubCategories(c.Request.Context(), params)
	sendListResult(h, c, params, subcategories, total, err)
}

func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	tags, total, err := h.taxonomyService.ListTags(c.Request.Context(), params)
	sendListResult(h, c, params, tags, total, err)
}

func (h *TaxonomyHandler) ListAttributeTypes(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	types, total, err := h.taxonomyService.ListAttributeTypes(c.Request.Context(), params)
	sendListResult(h, c, params, types, total, err)
}

func (h *TaxonomyHandler) ListResourceTypes(c *gin.Context) {
	params, ok := h.bindListParams(c)
	if !ok {
		return
	}
	types, total, err := h.taxonomyService.ListResourceTypes(c.Request.Context(), params)
	sendListResult(h, c, params, types, total, err)
}

func (h *TaxonomyHandler) getID(c *gin.Context) (uint, bool) {
	id, apiErr := h.Helper.ParseID(c, "id")
	if apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return 0, false
	}
	return id, true
}

func (h *TaxonomyHandler) GetAssuranceGoal(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	goal, err := h.taxonomyService.GetGoal(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, goal)
}

func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	category, err := h.taxonomyService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, category)
}

func (h *TaxonomyHandler) GetSubCategory(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	subcategory, err := h.taxonomyService.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, subcategory)
}

func (h *TaxonomyHandler) GetTag(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	tag, err := h.taxonomyService.GetTag(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, tag)
}

func (h *TaxonomyHandler) GetAttributeType(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	at, err := h.taxonomyService.GetAttributeType(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, at)
}

func (h *TaxonomyHandler) GetResourceType(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	rt, err := h.taxonomyService.GetResourceType(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, rt)
}

func (h *TaxonomyHandler) CreateAssuranceGoal(c *gin.Context) {
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	goal, err := h.taxonomyService.CreateGoal(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, goal)
}

func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	category, err := h.taxonomyService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, category)
}

func (h *TaxonomyHandler) CreateSubCategory(c *gin.Context) {
	var req models.SubCategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	subcategory, err := h.taxonomyService.CreateSubCategory(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, subcategory)
}

func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	tag, err := h.taxonomyService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, tag)
}

func (h *TaxonomyHandler) CreateAttributeType(c *gin.Context) {
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	at, err := h.taxonomyService.CreateAttributeType(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, at)
}

func (h *TaxonomyHandler) CreateResourceType(c *gin.Context) {
	var req models.ResourceTypeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	rt, err := h.taxonomyService.CreateResourceType(c.Request.Context(), &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusCreated, rt)
}

func (h *TaxonomyHandler) UpdateAssuranceGoal(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	goal, err := h.taxonomyService.UpdateGoal(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, goal)
}

func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	category, err := h.taxonomyService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, category)
}

func (h *TaxonomyHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.SubCategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	subcategory, err := h.taxonomyService.UpdateSubCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, subcategory)
}

func (h *TaxonomyHandler) UpdateTag(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	tag, err := h.taxonomyService.UpdateTag(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, tag)
}

func (h *TaxonomyHandler) UpdateAttributeType(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.NameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	at, err := h.taxonomyService.UpdateAttributeType(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, at)
}

func (h *TaxonomyHandler) UpdateResourceType(c *gin.Context) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	var req models.ResourceTypeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	rt, err := h.taxonomyService.UpdateResourceType(c.Request.Context(), id, &req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendData(c, http.StatusOK, rt)
}

func (h *TaxonomyHandler) DeleteAssuranceGoal(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteGoal)
}

func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteCategory)
}

func (h *TaxonomyHandler) DeleteSubCategory(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteSubCategory)
}

func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteTag)
}

func (h *TaxonomyHandler) DeleteAttributeType(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteAttributeType)
}

func (h *TaxonomyHandler) DeleteResourceType(c *gin.Context) {
	h.deleteByID(c, h.taxonomyService.DeleteResourceType)
}

func (h *TaxonomyHandler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.Helper.SendError(c, models.NewFieldError("non_field_errors", "malformed request body: "+err.Error()))
		return false
	}
	if apiErr := h.Helper.ValidateStruct(req); apiErr != nil {
		h.Helper.SendError(c, apiErr)
		return false
	}
	return true
}

func (h *TaxonomyHandler) deleteByID(c *gin.Context, del func(ctx context.Context, id uint) error) {
	id, ok := h.getID(c)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
