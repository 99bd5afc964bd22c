package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accesskit/identity-service/internal/api/metrics"
	"github.com/accesskit/identity-service/internal/core/ports"
)

type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type roleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions"`
}

// List returns every role with its flattened permission codes.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.RoleView
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roleService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get returns one role with its flattened permission codes.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  domain.RoleView
// @Failure      404  {object}  map[string]string
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	role, err := h.roleService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create inserts a role and attaches the permission codes that exist.
// Unknown codes are dropped from the response, not failed.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role definition"
// @Success      201   {object}  domain.RoleView
// @Failure      409   {object}  map[string]string
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.Create(c.Request().Context(), req.Name, req.Permissions)
	if err != nil {
		metrics.RoleMutationsTotal.WithLabelValues("create", "error").Inc()
		return err
	}

	metrics.RoleMutationsTotal.WithLabelValues("create", "success").Inc()
	countSkips(req.Permissions, role.Permissions)
	return c.JSON(http.StatusCreated, role)
}

// Update renames a role and replaces its permission grants atomically.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Role ID"
// @Param        body  body      roleRequest  true  "Role definition"
// @Success      200   {object}  domain.RoleView
// @Failure      404   {object}  map[string]string
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.Update(c.Request().Context(), id, req.Name, req.Permissions)
	if err != nil {
		metrics.RoleMutationsTotal.WithLabelValues("update", "error").Inc()
		return err
	}

	metrics.RoleMutationsTotal.WithLabelValues("update", "success").Inc()
	countSkips(req.Permissions, role.Permissions)
	return c.JSON(http.StatusOK, role)
}

// Remove deletes a role and its permission grants atomically.
//
// @Summary      Delete a role
// @Tags         roles
// @Security     BearerAuth
// @Param        id  path  int  true  "Role ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Remove(c echo.Context) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	if err := h.roleService.Remove(c.Request().Context(), id); err != nil {
		metrics.RoleMutationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.RoleMutationsTotal.WithLabelValues("delete", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

func roleID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid role id")
	}
	return id, nil
}

func countSkips(requested, attached []string) {
	if skips := len(requested) - len(attached); skips > 0 {
		metrics.PermissionCodesSkippedTotal.Add(float64(skips))
	}
}
