package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/auth"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type FormController struct {
	Repo    repository.FormRepositoryInterface
	Service *service.FormService
	Log     *zap.Logger
}

func (c *FormController) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	forms, total, err := c.Repo.List(offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"forms":      forms,
		"pagination": paginationMeta(offset, limit, total),
	})
}

func (c *FormController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid form id")
		return
	}
	form, err := c.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if form == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, form)
}

type formRequest struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description"`
	IsActive    *bool             `json:"is_active"`
	Fields      []model.FormField `json:"fields"`
}

func (c *FormController) Create(w http.ResponseWriter, r *http.Request) {
	var body formRequest
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}

	form := &model.CustomForm{
		Name:        body.Name,
		Title:       body.Title,
		Slug:        body.Slug,
		Description: body.Description,
		IsActive:    true,
		Fields:      body.Fields,
	}
	if body.IsActive != nil {
		form.IsActive = *body.IsActive
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		form.CreatedBy = &claims.UserID
	}

	if err := c.Service.CreateForm(form); err != nil {
		writeError(w, err)
		return
	}
	c.Log.Info("form created", zap.String("slug", form.Slug))
	writeJSON(w, http.StatusCreated, form)
}

func (c *FormController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid form id")
		return
	}
	var body struct {
		Name        *string `json:"name"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	form, err := c.Repo.Update(id, &repository.FormPatch{
		Name: body.Name, Title: body.Title, Description: body.Description, IsActive: body.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if form == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// ReplaceFields swaps the form's whole field set for the supplied one.
func (c *FormController) ReplaceFields(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid form id")
		return
	}
	var body struct {
		Fields []model.FormField `json:"fields"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if err := c.Service.ReplaceFields(id, body.Fields); err != nil {
		writeError(w, err)
		return
	}
	form, err := c.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (c *FormController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid form id")
		return
	}
	if err := c.Repo.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "form deleted"})
}

func (c *FormController) ListResponses(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid form id")
		return
	}
	offset, limit := pagination(r)
	responses, total, err := c.Repo.ListResponses(id, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"responses":  responses,
		"pagination": paginationMeta(offset, limit, total),
	})
}

// PublicGet serves a form definition to the unauthenticated renderer.
// Inactive forms are indistinguishable from missing ones.
func (c *FormController) PublicGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	form, err := c.Repo.GetBySlug(slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if form == nil || !form.IsActive {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// PublicSubmit accepts an unauthenticated submission for an active form.
func (c *FormController) PublicSubmit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var body struct {
		Answers map[string]any `json:"answers"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Answers == nil {
		body.Answers = map[string]any{}
	}
	resp, err := c.Service.SubmitResponse(slug, body.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "response recorded",
		"response_id": resp.ID,
	})
}
