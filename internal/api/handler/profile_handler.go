package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

// ProfileHandler handles HTTP requests for the profile aggregate.
type ProfileHandler struct {
	profiles ports.ProfileService
	repos    ports.RepoLookup
}

func NewProfileHandler(profiles ports.ProfileService, repos ports.RepoLookup) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, repos: repos}
}

// Me handles GET /profile/me.
//
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /profile/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.GetMine(c.Request().Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "There is no profile for this user")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Upsert handles POST /profile.
//
// @Summary      Create or update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  domain.ValidationError
// @Failure      401   {object}  messageResponse
// @Router       /profile [post]
func (h *ProfileHandler) Upsert(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Upsert(c.Request().Context(), userID, ports.ProfileInput{
		Status:         req.Status,
		Skills:         req.Skills,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// List handles GET /profile.
//
// @Summary      All profiles
// @Tags         profile
// @Produce      json
// @Success      200  {array}  domain.Profile
// @Router       /profile [get]
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.profiles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// ByUser handles GET /profile/user/:user_id.
//
// @Summary      Profile by user id
// @Tags         profile
// @Produce      json
// @Param        user_id  path      string  true  "Owner user id"
// @Success      200      {object}  domain.Profile
// @Failure      404      {object}  messageResponse
// @Router       /profile/user/{user_id} [get]
func (h *ProfileHandler) ByUser(c echo.Context) error {
	profile, err := h.profiles.GetByUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete handles DELETE /profile.
//
// @Summary      Delete the caller's account, profile and posts
// @Tags         profile
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /profile [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.profiles.Delete(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "User removed"})
}

// AddExperience handles PUT /profile/experience.
//
// @Summary      Prepend an experience entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      experienceRequest  true  "Experience entry"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  domain.ValidationError
// @Failure      404   {object}  messageResponse
// @Router       /profile/experience [put]
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req experienceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	from, _ := domain.ParseDate(req.From)
	profile, err := h.profiles.AddExperience(c.Request().Context(), userID, ports.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          optionalDate(req.To),
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveExperience handles DELETE /profile/experience/:exp_id.
//
// @Summary      Remove an experience entry
// @Tags         profile
// @Produce      json
// @Security     ApiKeyAuth
// @Param        exp_id  path      string  true  "Experience entry id"
// @Success      200     {object}  domain.Profile
// @Failure      404     {object}  messageResponse
// @Router       /profile/experience/{exp_id} [delete]
func (h *ProfileHandler) RemoveExperience(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.RemoveExperience(c.Request().Context(), userID, c.Param("exp_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// AddEducation handles PUT /profile/education.
//
// @Summary      Prepend an education entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      educationRequest  true  "Education entry"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  domain.ValidationError
// @Failure      404   {object}  messageResponse
// @Router       /profile/education [put]
func (h *ProfileHandler) AddEducation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req educationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	from, _ := domain.ParseDate(req.From)
	profile, err := h.profiles.AddEducation(c.Request().Context(), userID, ports.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           optionalDate(req.To),
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveEducation handles DELETE /profile/education/:edu_id.
//
// @Summary      Remove an education entry
// @Tags         profile
// @Produce      json
// @Security     ApiKeyAuth
// @Param        edu_id  path      string  true  "Education entry id"
// @Success      200     {object}  domain.Profile
// @Failure      404     {object}  messageResponse
// @Router       /profile/education/{edu_id} [delete]
func (h *ProfileHandler) RemoveEducation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.RemoveEducation(c.Request().Context(), userID, c.Param("edu_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GithubRepos handles GET /profile/github/:username. The upstream body is
// returned as-is.
//
// @Summary      Latest public repositories of a GitHub user
// @Tags         profile
// @Produce      json
// @Param        username  path      string  true  "GitHub username"
// @Success      200       {array}   object
// @Failure      404       {object}  messageResponse
// @Router       /profile/github/{username} [get]
func (h *ProfileHandler) GithubRepos(c echo.Context) error {
	body, err := h.repos.ListRepos(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, body)
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := domain.ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}
