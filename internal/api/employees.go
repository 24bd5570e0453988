package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"
	"github.com/sarveshmathanraj02/employee-task-app/internal/store"

	"github.com/gin-gonic/gin"
)

// createEmployeeRequest 创建员工的请求参数。
type createEmployeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// updateEmployeeRequest 部分更新员工的请求参数，仅更新出现的字段。
type updateEmployeeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
}

type employeeResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toEmployeeResponse(e *model.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
	}
}

// handleListEmployees 返回员工列表。
//
// GET /employees
func (s *Server) handleListEmployees(c *gin.Context) {
	employees, err := s.employees.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list employees failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list employees failed"})
		return
	}

	resp := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, toEmployeeResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetEmployee 按 ID 返回单个员工。
//
// GET /employees/:id
func (s *Server) handleGetEmployee(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	employee, err := s.employees.Get(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("get employee failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get employee failed"})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

// handleCreateEmployee 创建员工。
//
// POST /employees
func (s *Server) handleCreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := model.Employee{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
		Role:  strings.TrimSpace(req.Role),
	}
	if err := s.employees.Create(c.Request.Context(), &employee); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}
		s.logger.Error("create employee failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create employee failed"})
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(&employee))
}

// handleUpdateEmployee 部分更新员工，未携带的字段保持原值。
//
// PUT /employees/:id
func (s *Server) handleUpdateEmployee(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
			return
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
			return
		}
		updates["email"] = email
	}
	if req.Role != nil {
		updates["role"] = strings.TrimSpace(*req.Role)
	}

	employee, err := s.employees.Update(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}
		s.logger.Error("update employee failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update employee failed"})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

// handleDeleteEmployee 删除员工并级联删除其名下任务。
//
// DELETE /employees/:id
func (s *Server) handleDeleteEmployee(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	deleted, err := s.employees.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("delete employee failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete employee failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Employee deleted"})
}
